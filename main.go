// Package main provides the entry point for the readaloud CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/readaloud/internal/cache"
	"github.com/dgnsrekt/readaloud/library"
	"github.com/dgnsrekt/readaloud/tts"

	// Register the built-in engines.
	_ "github.com/dgnsrekt/readaloud/tts/engines/mock"
	_ "github.com/dgnsrekt/readaloud/tts/engines/piper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string

	rootCmd = &cobra.Command{
		Use:   "readaloud",
		Short: "Listen to your documents, with karaoke highlighting",
		Long: paragraph(
			fmt.Sprintf("\nImport markdown into a local library, %s it to audio, and read along with word-level highlighting.", keyword("synthesize")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
	}
)

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))

	viper.SetDefault("library.dir", "")
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.max_mb", 512)
	viper.SetDefault("engine.name", "piper")
	viper.SetDefault("engine.voice", "")
	viper.SetDefault("engine.model", "")
	viper.SetDefault("engine.speed", 1.0)
	viper.SetDefault("transcribe.url", "")
	viper.SetDefault("transcribe.token", "")
	viper.SetDefault("transcribe.model", "small")
	viper.SetDefault("transcribe.requests_per_minute", 0)
	viper.SetDefault("chunk_chars", 800)

	rootCmd.AddCommand(
		addCmd,
		listCmd,
		showCmd,
		generateCmd,
		readCmd,
		rmCmd,
		configCmd,
		manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "readaloud")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "readaloud")}, dirs...)
	}

	if c := os.Getenv("READALOUD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("readaloud")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("readaloud")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "readaloud.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

// expandPath resolves a leading ~ in user-supplied paths.
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// openLibrary opens the configured library store, defaulting to the user
// data directory.
func openLibrary() (*library.Store, error) {
	dir := expandPath(viper.GetString("library.dir"))
	if dir == "" {
		scope := gap.NewScope(gap.User, "readaloud")
		dirs, err := scope.DataDirs()
		if err != nil || len(dirs) == 0 {
			return nil, fmt.Errorf("could not determine data directory: %w", err)
		}
		dir = filepath.Join(dirs[0], "library")
	}
	return library.Open(dir)
}

// openCache opens the synthesized-chunk cache, defaulting to the user cache
// directory.
func openCache() (*cache.Cache, error) {
	dir := expandPath(viper.GetString("cache.dir"))
	if dir == "" {
		scope := gap.NewScope(gap.User, "readaloud")
		cacheDir, err := scope.CacheDir()
		if err != nil || cacheDir == "" {
			return nil, fmt.Errorf("could not determine cache directory: %w", err)
		}
		dir = filepath.Join(cacheDir, "chunks")
	}
	return cache.New(dir, viper.GetInt64("cache.max_mb")*1024*1024)
}

// buildEngine constructs the configured TTS engine.
func buildEngine() (tts.Engine, error) {
	return tts.NewEngine(tts.Config{
		Engine:    viper.GetString("engine.name"),
		Voice:     viper.GetString("engine.voice"),
		ModelPath: expandPath(viper.GetString("engine.model")),
		Speed:     viper.GetFloat64("engine.speed"),
	})
}
