// Package mock provides a deterministic offline engine for tests and demos.
// Output length is proportional to word count, so timing estimates derived
// from it behave like real speech pacing.
package mock

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/dgnsrekt/readaloud/sentence"
	"github.com/dgnsrekt/readaloud/tts"
)

const (
	sampleRate  = 22050
	maxTextSize = 5000

	// Spoken pace the generated audio length simulates.
	wordsPerMinute = 150
)

func init() {
	tts.Register("mock", func(cfg tts.Config) (tts.Engine, error) {
		return New(cfg.Voice), nil
	})
}

// Engine synthesizes a quiet tone whose duration matches the text's word
// count at a fixed speaking pace.
type Engine struct {
	voice string
}

// New creates a mock engine. The voice only varies the tone pitch.
func New(voice string) *Engine {
	return &Engine{voice: voice}
}

// Synthesize generates deterministic 16-bit mono PCM for the text.
func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, tts.ErrEmptyText
	}
	if len(text) > maxTextSize {
		return nil, tts.ErrTextTooLong
	}

	words := sentence.CountWords(text)
	if words == 0 {
		words = 1
	}
	seconds := float64(words) / wordsPerMinute * 60.0
	samples := int(seconds * sampleRate)

	freq := 220.0
	for _, r := range e.voice {
		freq += float64(r % 64)
	}

	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		// Fade the tone per simulated word so chunk boundaries are
		// audible when debugging.
		envelope := math.Abs(math.Sin(math.Pi * float64(i) / (0.4 * sampleRate)))
		sample := int16(v * envelope * 8000)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	return pcm, nil
}

// Info reports the fixed mock output format.
func (e *Engine) Info() tts.EngineInfo {
	return tts.EngineInfo{
		Name:        "mock",
		Voice:       e.voice,
		SampleRate:  sampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: maxTextSize,
		IsOnline:    false,
	}
}

// Validate always succeeds; the mock has no external dependencies.
func (e *Engine) Validate() error { return nil }

// Close is a no-op.
func (e *Engine) Close() error { return nil }
