// Package pipeline orchestrates audio generation for a library item: chunk
// the document, synthesize each chunk, assemble the WAV, and produce a timing
// document by transcription alignment, falling back to rate-based estimation
// whenever transcription fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/audio"
	"github.com/dgnsrekt/readaloud/internal/cache"
	"github.com/dgnsrekt/readaloud/library"
	"github.com/dgnsrekt/readaloud/sentence"
	"github.com/dgnsrekt/readaloud/timing"
	"github.com/dgnsrekt/readaloud/transcribe"
	"github.com/dgnsrekt/readaloud/tts"
)

// ErrBusy is returned when a generation job is already running.
var ErrBusy = errors.New("pipeline: generation already in progress")

// Timing sources recorded in Result.
const (
	SourceAligned   = "aligned"
	SourceEstimated = "estimated"
)

const defaultChunkChars = 800

// Result summarizes a completed generation.
type Result struct {
	ItemID    string
	Duration  float64
	Sentences int
	Chunks    int
	CacheHits int
	Source    string
}

// Generator runs generation jobs one at a time.
type Generator struct {
	store   *library.Store
	engine  tts.Engine
	backend transcribe.Backend // nil disables alignment
	cache   *cache.Cache       // nil disables chunk caching

	chunkChars     int
	wordsPerMinute int

	mu sync.Mutex
}

// Option configures a Generator.
type Option func(*Generator)

// WithBackend enables transcription alignment.
func WithBackend(b transcribe.Backend) Option {
	return func(g *Generator) { g.backend = b }
}

// WithCache enables the synthesized-chunk cache.
func WithCache(c *cache.Cache) Option {
	return func(g *Generator) { g.cache = c }
}

// WithChunkChars overrides the per-request text size.
func WithChunkChars(n int) Option {
	return func(g *Generator) { g.chunkChars = n }
}

// New creates a Generator for the given store and engine.
func New(store *library.Store, engine tts.Engine, opts ...Option) *Generator {
	g := &Generator{
		store:          store,
		engine:         engine,
		chunkChars:     defaultChunkChars,
		wordsPerMinute: timing.DefaultWordsPerMinute,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces audio and timing for one library item and persists both.
// Only one job runs at a time; concurrent calls fail fast with ErrBusy.
func (g *Generator) Generate(ctx context.Context, itemID string) (*Result, error) {
	if !g.mu.TryLock() {
		return nil, ErrBusy
	}
	defer g.mu.Unlock()

	markdown, err := g.store.Document(itemID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	plain := sentence.ExtractText(markdown)
	sentences := sentence.Split(plain)
	chunks := sentence.Chunk(plain, g.chunkChars)

	log.Debug("starting generation", "item", itemID, "sentences", len(sentences), "chunks", len(chunks))

	pcm, hits, err := g.synthesize(ctx, chunks)
	if err != nil {
		return nil, err
	}

	wav := audio.EncodeWAV(audio.ConcatPCM(pcm), g.format())
	duration, err := audio.Duration(wav)
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}

	doc, source := g.buildTiming(ctx, wav, sentences, duration)

	if err := g.store.SaveAudio(itemID, wav, duration); err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}
	if err := g.store.SaveTiming(itemID, doc); err != nil {
		return nil, fmt.Errorf("save timing: %w", err)
	}

	log.Info("generation complete", "item", itemID, "duration", duration, "timing", source)

	return &Result{
		ItemID:    itemID,
		Duration:  duration,
		Sentences: len(sentences),
		Chunks:    len(chunks),
		CacheHits: hits,
		Source:    source,
	}, nil
}

// synthesize renders each chunk, consulting the cache first.
func (g *Generator) synthesize(ctx context.Context, chunks []string) (pcm [][]byte, hits int, err error) {
	info := g.engine.Info()
	pcm = make([][]byte, 0, len(chunks))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, hits, err
		}

		key := cache.Key(info.Name, info.Voice, chunk)
		if g.cache != nil {
			if data, ok := g.cache.Get(key); ok {
				pcm = append(pcm, data)
				hits++
				continue
			}
		}

		data, err := g.engine.Synthesize(ctx, chunk)
		if err != nil {
			return nil, hits, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		pcm = append(pcm, data)

		if g.cache != nil {
			if err := g.cache.Put(key, data); err != nil {
				log.Debug("failed to cache chunk", "error", err)
			}
		}
	}

	return pcm, hits, nil
}

// buildTiming aligns against a transcription when a backend is configured
// and reachable; any failure downgrades to the rate-based estimate rather
// than failing the job.
func (g *Generator) buildTiming(ctx context.Context, wav []byte, sentences []timing.Sentence, duration float64) (*timing.Document, string) {
	if g.backend != nil {
		result, err := g.backend.Transcribe(ctx, wav)
		if err == nil {
			words := timing.FlattenSegments(result.Segments)
			return timing.Align(words, sentences, duration), SourceAligned
		}
		log.Warn("transcription failed, falling back to estimated timing", "error", err)
	}
	return timing.Estimate(sentences, duration, g.wordsPerMinute), SourceEstimated
}

func (g *Generator) format() audio.Format {
	info := g.engine.Info()
	return audio.Format{
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		BitDepth:   info.BitDepth,
	}
}
