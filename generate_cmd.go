package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/readaloud/pipeline"
	"github.com/dgnsrekt/readaloud/transcribe"
)

var generateNoCache bool

var generateCmd = &cobra.Command{
	Use:   "generate <item>",
	Short: "Synthesize audio and word timing for an item",
	Long: paragraph(fmt.Sprintf("\n%s audio for a library item and compute its word-level timing. "+
		"With a transcription server configured, timing is aligned against the actual audio; "+
		"otherwise it is estimated from a fixed speaking rate.", keyword("Generate"))),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}

		entry, err := resolveItem(store, args[0])
		if err != nil {
			return err
		}

		engine, err := buildEngine()
		if err != nil {
			return err
		}
		defer engine.Close() //nolint:errcheck
		if err := engine.Validate(); err != nil {
			return err
		}

		opts := []pipeline.Option{
			pipeline.WithChunkChars(viper.GetInt("chunk_chars")),
		}

		if !generateNoCache {
			c, err := openCache()
			if err != nil {
				log.Warn("chunk cache disabled", "error", err)
			} else {
				opts = append(opts, pipeline.WithCache(c))
			}
		}

		if url := viper.GetString("transcribe.url"); url != "" {
			opts = append(opts, pipeline.WithBackend(transcribe.NewRemote(transcribe.RemoteConfig{
				BaseURL:           url,
				Token:             viper.GetString("transcribe.token"),
				Model:             viper.GetString("transcribe.model"),
				RequestsPerMinute: viper.GetInt("transcribe.requests_per_minute"),
			})))
		}

		fmt.Printf("Generating audio for %q...\n", entry.Title)
		start := time.Now()

		result, err := pipeline.New(store, engine, opts...).Generate(cmd.Context(), entry.ID)
		if err != nil {
			return err
		}

		fmt.Printf("Done in %s: %s of audio, %d sentences, timing %s",
			time.Since(start).Round(time.Millisecond),
			humanizeDuration(result.Duration),
			result.Sentences,
			result.Source)
		if result.CacheHits > 0 {
			fmt.Printf(" (%d/%d chunks cached)", result.CacheHits, result.Chunks)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoCache, "no-cache", false, "bypass the synthesized chunk cache")
}
