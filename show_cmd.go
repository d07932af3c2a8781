package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <item>",
	Short: "Render a library document",
	Long:  paragraph(fmt.Sprintf("\n%s a library document in the terminal. Items can be referenced by ID, ID prefix, or title.", keyword("Render"))),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}

		entry, err := resolveItem(store, args[0])
		if err != nil {
			return err
		}

		content, err := store.Document(entry.ID)
		if err != nil {
			return err
		}

		if showRaw {
			fmt.Print(content)
			return nil
		}

		width := 80
		isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
		if isTerminal {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = w
			}
			if width > 120 {
				width = 120
			}
		}

		style := glamour.WithAutoStyle()
		if !isTerminal || termenv.EnvNoColor() {
			style = glamour.WithStandardStyle("notty")
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithColorProfile(lipgloss.ColorProfile()),
			style,
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("unable to create renderer: %w", err)
		}

		out, err := r.Render(content)
		if err != nil {
			return fmt.Errorf("unable to render markdown: %w", err)
		}
		fmt.Print(out)

		item, err := store.Get(entry.ID)
		if err == nil && item.AudioGenerated {
			fmt.Printf("Audio: %s · generated\n", humanizeDuration(item.AudioDuration))
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the raw markdown")
}

func humanizeDuration(seconds float64) string {
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	if mins == 0 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", mins, secs)
}
