package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/readaloud/internal/cache"
	"github.com/dgnsrekt/readaloud/library"
	"github.com/dgnsrekt/readaloud/timing"
	"github.com/dgnsrekt/readaloud/transcribe"
	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/engines/mock"
)

const testMarkdown = "# Greeting\n\nHello world. Goodbye now."

func newTestItem(t *testing.T) (*library.Store, string) {
	t.Helper()
	store, err := library.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	item, err := store.Create(testMarkdown, "greeting.md", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return store, item.ID
}

// stubBackend returns canned transcription results.
type stubBackend struct {
	result *transcribe.Result
	err    error
	calls  int
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Transcribe(ctx context.Context, wav []byte) (*transcribe.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubBackend) HealthCheck(ctx context.Context) error { return s.err }

func ptr(v float64) *float64 { return &v }

// TestGenerateEstimatedWithoutBackend tests the no-backend path end to end.
func TestGenerateEstimatedWithoutBackend(t *testing.T) {
	store, id := newTestItem(t)
	g := New(store, mock.New(""))

	result, err := g.Generate(context.Background(), id)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if result.Source != SourceEstimated {
		t.Errorf("source = %q, want estimated", result.Source)
	}
	// "Greeting" + two sentences.
	if result.Sentences != 3 {
		t.Errorf("sentences = %d, want 3", result.Sentences)
	}
	if result.Duration <= 0 {
		t.Errorf("duration = %v, want > 0", result.Duration)
	}

	if !store.HasAudio(id) || !store.HasTiming(id) {
		t.Fatal("artifacts not persisted")
	}

	doc, err := store.Timing(id)
	if err != nil {
		t.Fatalf("Timing: %v", err)
	}
	if doc.Version != timing.DocumentVersion {
		t.Errorf("version = %q", doc.Version)
	}
	if len(doc.Sentences) != 3 {
		t.Fatalf("timing sentences = %d", len(doc.Sentences))
	}
	for _, s := range doc.Sentences {
		for _, w := range s.Words {
			if w.Confidence != timing.ConfidenceEstimate {
				t.Fatalf("confidence = %v, want estimate marker", w.Confidence)
			}
		}
	}

	item, _ := store.Get(id)
	if !item.AudioGenerated || item.AudioDuration != result.Duration {
		t.Errorf("metadata not updated: %+v", item)
	}
}

// TestGenerateAlignedWithBackend tests the transcription path.
func TestGenerateAlignedWithBackend(t *testing.T) {
	store, id := newTestItem(t)

	// A transcript that matches the document's words.
	backend := &stubBackend{result: &transcribe.Result{
		Segments: []timing.Segment{{
			Text: "greeting hello world goodbye now", Start: 0, End: 2.0,
			Words: []timing.SegmentWord{
				{Word: "greeting", Start: ptr(0.0), End: ptr(0.4)},
				{Word: "hello", Start: ptr(0.4), End: ptr(0.8)},
				{Word: "world", Start: ptr(0.8), End: ptr(1.2)},
				{Word: "goodbye", Start: ptr(1.2), End: ptr(1.6)},
				{Word: "now", Start: ptr(1.6), End: ptr(2.0)},
			},
		}},
	}}

	g := New(store, mock.New(""), WithBackend(backend))

	result, err := g.Generate(context.Background(), id)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Source != SourceAligned {
		t.Errorf("source = %q, want aligned", result.Source)
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}

	doc, _ := store.Timing(id)
	words := doc.Sentences[1].Words // "Hello world."
	if len(words) != 2 || words[0].Word != "Hello" {
		t.Fatalf("sentence 1 words = %+v", words)
	}
	if words[0].Start != 0.4 || words[0].End != 0.8 {
		t.Errorf("hello span = [%v, %v], want [0.4, 0.8]", words[0].Start, words[0].End)
	}
	if words[0].Confidence != timing.ConfidenceEngine {
		t.Errorf("confidence = %v, want engine marker", words[0].Confidence)
	}
}

// TestGenerateFallsBackOnBackendError tests the align-or-estimate policy.
func TestGenerateFallsBackOnBackendError(t *testing.T) {
	store, id := newTestItem(t)
	backend := &stubBackend{err: errors.New("server unreachable")}

	g := New(store, mock.New(""), WithBackend(backend))

	result, err := g.Generate(context.Background(), id)
	if err != nil {
		t.Fatalf("Generate should not fail when transcription fails: %v", err)
	}
	if result.Source != SourceEstimated {
		t.Errorf("source = %q, want estimated fallback", result.Source)
	}
	if !store.HasTiming(id) {
		t.Error("fallback timing not persisted")
	}
}

// TestGenerateUsesCache tests chunk reuse across runs.
func TestGenerateUsesCache(t *testing.T) {
	store, id := newTestItem(t)
	c, err := cache.New(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}

	g := New(store, mock.New(""), WithCache(c))

	first, err := g.Generate(context.Background(), id)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if first.CacheHits != 0 {
		t.Errorf("first run hits = %d, want 0", first.CacheHits)
	}

	second, err := g.Generate(context.Background(), id)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if second.CacheHits != second.Chunks {
		t.Errorf("second run hits = %d, want all %d chunks", second.CacheHits, second.Chunks)
	}
	if second.Duration != first.Duration {
		t.Errorf("durations differ: %v vs %v", first.Duration, second.Duration)
	}
}

// blockingEngine stalls synthesis until released, to hold the job lock.
type blockingEngine struct {
	tts.Engine
	release chan struct{}
	started chan struct{}
	once    bool
}

func (b *blockingEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !b.once {
		b.once = true
		close(b.started)
		<-b.release
	}
	return b.Engine.Synthesize(ctx, text)
}

// TestGenerateBusy tests that concurrent jobs are rejected.
func TestGenerateBusy(t *testing.T) {
	store, id := newTestItem(t)

	engine := &blockingEngine{
		Engine:  mock.New(""),
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	g := New(store, engine)

	done := make(chan error, 1)
	go func() {
		_, err := g.Generate(context.Background(), id)
		done <- err
	}()

	<-engine.started
	if _, err := g.Generate(context.Background(), id); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Generate err = %v, want ErrBusy", err)
	}

	close(engine.release)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("first Generate: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first job never finished")
	}

	// The lock is free again.
	if _, err := g.Generate(context.Background(), id); err != nil {
		t.Errorf("Generate after release: %v", err)
	}
}

// TestGenerateMissingItem tests the unknown-ID error path.
func TestGenerateMissingItem(t *testing.T) {
	store, _ := newTestItem(t)
	g := New(store, mock.New(""))

	if _, err := g.Generate(context.Background(), "no-such-item"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestGenerateCanceled tests context cancellation before synthesis.
func TestGenerateCanceled(t *testing.T) {
	store, id := newTestItem(t)
	g := New(store, mock.New(""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, id); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
