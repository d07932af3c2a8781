// Package piper runs the Piper neural TTS binary as a subprocess. Each
// synthesis spawns a fresh process with stdin pre-configured, which avoids
// the race where piper reads stdin before the writer is attached.
package piper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgnsrekt/readaloud/tts"
)

const (
	defaultSampleRate = 22050
	maxTextSize       = 5000
	maxAudioSize      = 50 * 1024 * 1024
	synthesisTimeout  = 30 * time.Second
)

func init() {
	tts.Register("piper", func(cfg tts.Config) (tts.Engine, error) {
		return New(Config{
			ModelPath: cfg.ModelPath,
			Voice:     cfg.Voice,
			Speed:     cfg.Speed,
		})
	})
}

// Config holds Piper engine settings.
type Config struct {
	// ModelPath is the .onnx voice model (required).
	ModelPath string

	// ConfigPath is the model's JSON config. Defaults to the model path
	// with a .json extension.
	ConfigPath string

	// Voice selects a speaker in multi-speaker models.
	Voice string

	// Speed is the speaking rate multiplier. Piper takes the inverse as
	// its length scale.
	Speed float64

	// Binary overrides the piper executable name, for tests.
	Binary string
}

// Engine is a subprocess-backed Piper engine.
type Engine struct {
	cfg        Config
	sampleRate int
}

// New creates a Piper engine and verifies its model file exists.
func New(cfg Config) (*Engine, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("piper: model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("piper: model file not found: %w", err)
	}

	if cfg.ConfigPath == "" {
		cfg.ConfigPath = strings.TrimSuffix(cfg.ModelPath, filepath.Ext(cfg.ModelPath)) + ".json"
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}

	return &Engine{cfg: cfg, sampleRate: defaultSampleRate}, nil
}

// args builds the piper command line for the configured engine.
func (e *Engine) args() []string {
	args := []string{
		"--model", e.cfg.ModelPath,
		"--config", e.cfg.ConfigPath,
		"--output-raw",
		"--length-scale", fmt.Sprintf("%.2f", 1.0/e.cfg.Speed),
	}
	if e.cfg.Voice != "" {
		args = append(args, "--speaker", e.cfg.Voice)
	}
	return args
}

// Synthesize runs piper over the text and returns its raw PCM output.
func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, tts.ErrEmptyText
	}
	if len(text) > maxTextSize {
		return nil, fmt.Errorf("%w: %d characters (max %d)", tts.ErrTextTooLong, len(text), maxTextSize)
	}

	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.cfg.Binary, e.args()...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("piper: synthesis timeout: %w", ctx.Err())
		}
		return nil, fmt.Errorf("piper: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	audio := stdout.Bytes()
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: piper produced no output, stderr: %s",
			tts.ErrSynthesisFailed, strings.TrimSpace(stderr.String()))
	}
	if len(audio) > maxAudioSize {
		return nil, fmt.Errorf("piper: output too large: %d bytes", len(audio))
	}

	return audio, nil
}

// Info reports the engine's output format.
func (e *Engine) Info() tts.EngineInfo {
	return tts.EngineInfo{
		Name:        "piper",
		Voice:       e.cfg.Voice,
		SampleRate:  e.sampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: maxTextSize,
		IsOnline:    false,
	}
}

// Validate checks the piper binary and model are reachable.
func (e *Engine) Validate() error {
	if _, err := exec.LookPath(e.cfg.Binary); err != nil {
		return fmt.Errorf("%w: %s not in PATH", tts.ErrEngineNotAvailable, e.cfg.Binary)
	}
	if _, err := os.Stat(e.cfg.ModelPath); err != nil {
		return fmt.Errorf("%w: model missing: %v", tts.ErrEngineNotAvailable, err)
	}
	return nil
}

// Close is a no-op; each synthesis owns its process.
func (e *Engine) Close() error { return nil }
