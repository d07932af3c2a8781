// Package transcribe defines the transcription backend contract and its
// remote HTTP implementation. Backends return word-level segments which the
// timing package aligns against the source sentences.
package transcribe

import (
	"context"
	"errors"

	"github.com/dgnsrekt/readaloud/timing"
)

// ErrUnavailable indicates the backend cannot be reached or is unhealthy.
var ErrUnavailable = errors.New("transcribe: backend unavailable")

// Result is a completed transcription.
type Result struct {
	Segments []timing.Segment
	Language string
	Duration float64
	Model    string
}

// Backend transcribes audio into word-level segments.
type Backend interface {
	// Name returns the backend identifier for logs and metadata.
	Name() string

	// Transcribe sends WAV audio for transcription and returns segments
	// with per-word timestamps.
	Transcribe(ctx context.Context, wav []byte) (*Result, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error
}
