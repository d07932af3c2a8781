package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// debugConfig is read from the environment so logging can be enabled without
// touching the config file.
type debugConfig struct {
	Debug   bool   `env:"READALOUD_DEBUG"`
	LogFile string `env:"READALOUD_LOGFILE"`
}

// setupLog routes logs to a file when debugging is enabled and silences them
// otherwise, keeping the TUI output clean. The returned closer must run
// before exit.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[debugConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing debug config: %w", err)
	}

	if cfg.Debug && cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetTimeFormat(time.Kitchen)
		return f.Close, nil
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	return func() error { return nil }, nil
}
