// Package tts defines the contract for text-to-speech engines. Engines
// produce raw PCM (16-bit little-endian, mono) so the audio package can wrap
// the output in a single WAV container regardless of backend.
package tts

import "context"

// Engine converts text chunks to audio.
type Engine interface {
	// Synthesize converts one text chunk to raw PCM at the rate reported
	// by Info. The implementation must bound its own runtime.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Info returns engine capabilities and audio format.
	Info() EngineInfo

	// Validate checks the engine is usable: binaries present, model files
	// readable.
	Validate() error

	// Close releases engine resources.
	Close() error
}

// EngineInfo describes an engine's output format and limits.
type EngineInfo struct {
	Name        string
	Voice       string
	SampleRate  int
	Channels    int
	BitDepth    int
	MaxTextSize int
	IsOnline    bool
}
