package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/readaloud/library"
)

var (
	listIDStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"})
	listMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
	listAudioBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("♪")
)

var listCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List library items",
	Long:  paragraph(fmt.Sprintf("\n%s the library, optionally fuzzy-filtered by title.", keyword("List"))),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}

		entries, err := store.List()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			entries = filterEntries(entries, args[0])
		}

		if len(entries) == 0 {
			fmt.Println("Library is empty. Import something with: readaloud add <file>")
			return nil
		}

		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}

		for _, e := range entries {
			printEntry(e, width)
		}
		return nil
	},
}

func filterEntries(entries []library.IndexEntry, pattern string) []library.IndexEntry {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}

	matches := fuzzy.Find(pattern, titles)
	filtered := make([]library.IndexEntry, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, entries[m.Index])
	}
	return filtered
}

func printEntry(e library.IndexEntry, width int) {
	badge := " "
	if e.AudioGenerated {
		badge = listAudioBadge
	}

	title := runewidth.Truncate(e.Title, width-32, "…")
	meta := fmt.Sprintf("%s words · %s",
		humanize.Comma(int64(e.WordCount)), humanize.Time(e.CreatedAt))

	fmt.Printf("%s %s %s\n  %s\n",
		listIDStyle.Render(shortID(e.ID)),
		badge,
		title,
		listMetaStyle.Render(meta))
}
