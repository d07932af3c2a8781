package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/gitcha"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/readaloud/library"
)

var addTitle string

var addCmd = &cobra.Command{
	Use:   "add <file|dir>",
	Short: "Import markdown into the library",
	Long:  paragraph(fmt.Sprintf("\n%s a markdown file into the library, or scan a directory and import every markdown file found.", keyword("Import"))),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}

		target := expandPath(args[0])
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("unable to stat %s: %w", target, err)
		}

		if info.IsDir() {
			return addDirectory(store, target)
		}
		return addFile(store, target, addTitle)
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "override the document title (single file only)")
}

func addFile(store *library.Store, path, title string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read file: %w", err)
	}

	item, err := store.Create(string(content), filepath.Base(path), title)
	if err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			fmt.Printf("Skipped %s: %v\n", filepath.Base(path), err)
			return nil
		}
		return err
	}

	fmt.Printf("Added %q (%s words) as %s\n",
		item.Title, humanize.Comma(int64(item.WordCount)), shortID(item.ID))
	return nil
}

func addDirectory(store *library.Store, dir string) error {
	ch, err := gitcha.FindFilesExcept(dir, []string{"*.md", "*.markdown"}, []string{".*"})
	if err != nil {
		return fmt.Errorf("unable to scan directory: %w", err)
	}

	added := 0
	for result := range ch {
		if strings.HasPrefix(filepath.Base(result.Path), ".") {
			continue
		}
		if err := addFile(store, result.Path, ""); err != nil {
			return err
		}
		added++
	}

	if added == 0 {
		return errors.New("no markdown files found")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
