package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/readaloud/audio"
	"github.com/dgnsrekt/readaloud/ui"
)

var readCmd = &cobra.Command{
	Use:   "read <item>",
	Short: "Play an item with karaoke highlighting",
	Long:  paragraph(fmt.Sprintf("\n%s an item's audio while following along word by word. Run 'readaloud generate' first.", keyword("Play"))),
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

		if !store.HasAudio(entry.ID) || !store.HasTiming(entry.ID) {
			return fmt.Errorf("no audio for %q yet: run 'readaloud generate %s' first",
				entry.Title, shortID(entry.ID))
		}

		doc, err := store.Timing(entry.ID)
		if err != nil {
			return err
		}

		wav, err := os.ReadFile(store.AudioPath(entry.ID))
		if err != nil {
			return fmt.Errorf("unable to read audio: %w", err)
		}
		pcm, format, err := audio.DecodeWAV(wav)
		if err != nil {
			return err
		}

		player, err := audio.NewPlayer(format)
		if err != nil {
			return err
		}
		player.Load(pcm)

		reader := ui.NewReader(entry.Title, doc, player)
		if _, err := tea.NewProgram(reader, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("unable to run reader: %w", err)
		}
		return nil
	},
}
