package piper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/readaloud/tts"
)

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.onnx")
	if err := os.WriteFile(path, []byte("model"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestNewDefaults tests config defaulting.
func TestNewDefaults(t *testing.T) {
	model := writeModel(t)

	e, err := New(Config{ModelPath: model})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if e.cfg.ConfigPath != strings.TrimSuffix(model, ".onnx")+".json" {
		t.Errorf("config path = %q", e.cfg.ConfigPath)
	}
	if e.cfg.Speed != 1.0 {
		t.Errorf("speed = %v, want 1.0", e.cfg.Speed)
	}
	if e.cfg.Binary != "piper" {
		t.Errorf("binary = %q", e.cfg.Binary)
	}

	info := e.Info()
	if info.Name != "piper" || info.SampleRate != defaultSampleRate {
		t.Errorf("info = %+v", info)
	}
}

// TestNewValidation tests required-field checks.
func TestNewValidation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("missing model path should fail")
	}
	if _, err := New(Config{ModelPath: "/no/such/model.onnx"}); err == nil {
		t.Error("missing model file should fail")
	}
}

// TestArgs tests command-line construction, including the inverse speed to
// length-scale mapping.
func TestArgs(t *testing.T) {
	model := writeModel(t)

	tests := []struct {
		name     string
		cfg      Config
		contains []string
		excludes []string
	}{
		{
			name:     "defaults",
			cfg:      Config{ModelPath: model},
			contains: []string{"--output-raw", "--length-scale", "1.00"},
			excludes: []string{"--speaker"},
		},
		{
			name:     "double speed halves length scale",
			cfg:      Config{ModelPath: model, Speed: 2.0},
			contains: []string{"--length-scale", "0.50"},
		},
		{
			name:     "voice adds speaker",
			cfg:      Config{ModelPath: model, Voice: "3"},
			contains: []string{"--speaker", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			joined := strings.Join(e.args(), " ")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("args %q missing %q", joined, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(joined, bad) {
					t.Errorf("args %q should not contain %q", joined, bad)
				}
			}
		})
	}
}

// TestSynthesizeInputValidation tests the checks that run before any process
// is spawned.
func TestSynthesizeInputValidation(t *testing.T) {
	e, err := New(Config{ModelPath: writeModel(t)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Synthesize(context.Background(), ""); !errors.Is(err, tts.ErrEmptyText) {
		t.Errorf("empty text err = %v, want ErrEmptyText", err)
	}
	if _, err := e.Synthesize(context.Background(), strings.Repeat("a", maxTextSize+1)); !errors.Is(err, tts.ErrTextTooLong) {
		t.Errorf("long text err = %v, want ErrTextTooLong", err)
	}
}

// TestSynthesizeSubprocess tests the full subprocess path using a stand-in
// binary that echoes fixed bytes.
func TestSynthesizeSubprocess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fakepiper")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ncat >/dev/null\nprintf 'PCMDATA'\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	e, err := New(Config{ModelPath: writeModel(t), Binary: script})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	audio, err := e.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "PCMDATA" {
		t.Errorf("audio = %q", audio)
	}
}

// TestSynthesizeEmptyOutput tests that a silent binary maps to
// ErrSynthesisFailed.
func TestSynthesizeEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fakepiper")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ncat >/dev/null\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	e, err := New(Config{ModelPath: writeModel(t), Binary: script})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := e.Synthesize(context.Background(), "hello"); !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Errorf("err = %v, want ErrSynthesisFailed", err)
	}
}

// TestValidate tests binary and model checks.
func TestValidate(t *testing.T) {
	e, err := New(Config{ModelPath: writeModel(t), Binary: "definitely-not-a-real-binary"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Validate(); !errors.Is(err, tts.ErrEngineNotAvailable) {
		t.Errorf("err = %v, want ErrEngineNotAvailable", err)
	}
}
