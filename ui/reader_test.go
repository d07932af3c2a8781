package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/readaloud/timing"
)

// fakePlayer is a Player with a settable clock and no audio device.
type fakePlayer struct {
	position float64
	playing  bool
	closed   bool
	atEnd    bool
}

func (f *fakePlayer) Play() error  { f.playing = true; return nil }
func (f *fakePlayer) Pause() error { f.playing = false; return nil }
func (f *fakePlayer) Seek(seconds float64) error {
	f.position = seconds
	f.atEnd = false
	return nil
}
func (f *fakePlayer) Position() float64 { return f.position }
func (f *fakePlayer) AtEnd() bool       { return f.atEnd }
func (f *fakePlayer) Close() error      { f.closed = true; return nil }

func testDoc() *timing.Document {
	return &timing.Document{
		Version:       timing.DocumentVersion,
		AudioDuration: 6.0,
		Sentences: []timing.SentenceTiming{
			{SentenceIndex: 0, Text: "Hello world.", Start: 0, End: 2,
				Words: []timing.WordTiming{
					{Word: "Hello", Start: 0, End: 1, Confidence: 0.9},
					{Word: "world", Start: 1, End: 2, Confidence: 0.9},
				}},
			{SentenceIndex: 1, Text: "Goodbye now.", Start: 3, End: 5,
				Words: []timing.WordTiming{
					{Word: "Goodbye", Start: 3, End: 4, Confidence: 0.9},
					{Word: "now", Start: 4, End: 5, Confidence: 0.9},
				}},
		},
	}
}

func keyPress(k string) tea.KeyMsg {
	if k == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// TestReaderTickTracksPosition tests that ticks re-resolve playback state.
func TestReaderTickTracksPosition(t *testing.T) {
	player := &fakePlayer{}
	r := NewReader("Title", testDoc(), player)

	player.position = 1.5
	model, cmd := r.Update(tickMsg{})
	r = model.(*Reader)

	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if r.state.CurrentSentenceIndex != 0 || r.state.CurrentWordIndex != 1 {
		t.Errorf("state = (%d, %d), want (0, 1)",
			r.state.CurrentSentenceIndex, r.state.CurrentWordIndex)
	}

	player.position = 3.5
	model, _ = r.Update(tickMsg{})
	r = model.(*Reader)
	if r.state.CurrentSentenceIndex != 1 {
		t.Errorf("sentence = %d, want 1", r.state.CurrentSentenceIndex)
	}
}

// TestReaderPlayPause tests the space toggle.
func TestReaderPlayPause(t *testing.T) {
	player := &fakePlayer{}
	r := NewReader("Title", testDoc(), player)
	_ = r.Init()

	if !player.playing {
		t.Fatal("Init should start playback")
	}

	model, _ := r.Update(keyPress(" "))
	r = model.(*Reader)
	if player.playing || !r.paused {
		t.Error("space should pause")
	}

	model, _ = r.Update(keyPress(" "))
	r = model.(*Reader)
	if !player.playing || r.paused {
		t.Error("space should resume")
	}
}

// TestReaderSeekBySentence tests arrow navigation through sentence starts.
func TestReaderSeekBySentence(t *testing.T) {
	player := &fakePlayer{}
	r := NewReader("Title", testDoc(), player)

	// At the very start of sentence 0, right jumps to sentence 1.
	model, _ := r.Update(keyPress("l"))
	r = model.(*Reader)
	if player.position != 3.0 {
		t.Errorf("position = %v, want 3.0 (start of sentence 1)", player.position)
	}
	if r.state.CurrentSentenceIndex != 1 {
		t.Errorf("sentence = %d, want 1", r.state.CurrentSentenceIndex)
	}

	// Partway into sentence 1, left restarts it.
	player.position = 4.0
	model, _ = r.Update(tickMsg{})
	r = model.(*Reader)
	model, _ = r.Update(keyPress("h"))
	r = model.(*Reader)
	if player.position != 3.0 {
		t.Errorf("position = %v, want 3.0 (restart current)", player.position)
	}

	// At its start, left goes to the previous sentence.
	model, _ = r.Update(keyPress("h"))
	r = model.(*Reader)
	if player.position != 0.0 {
		t.Errorf("position = %v, want 0.0", player.position)
	}
}

// TestReaderFinishAndRestart tests end-of-audio handling.
func TestReaderFinishAndRestart(t *testing.T) {
	player := &fakePlayer{playing: true}
	r := NewReader("Title", testDoc(), player)

	player.position = 6.0
	player.atEnd = true
	model, _ := r.Update(tickMsg{})
	r = model.(*Reader)

	if !r.finished || !r.paused {
		t.Fatal("reader should finish at end of audio")
	}
	if !strings.Contains(r.View(), "finished") {
		t.Error("view should show finished state")
	}

	// Space after finishing restarts from zero.
	model, _ = r.Update(keyPress(" "))
	r = model.(*Reader)
	if player.position != 0 || r.finished {
		t.Errorf("restart: position = %v, finished = %v", player.position, r.finished)
	}
	if !player.playing {
		t.Error("restart should resume playback")
	}
}

// TestReaderQuitClosesPlayer tests resource cleanup on quit.
func TestReaderQuitClosesPlayer(t *testing.T) {
	player := &fakePlayer{}
	r := NewReader("Title", testDoc(), player)

	_, cmd := r.Update(keyPress("q"))
	if !player.closed {
		t.Error("quit should close the player")
	}
	if cmd == nil {
		t.Fatal("quit should return tea.Quit")
	}
}

// TestReaderView tests the assembled view contents.
func TestReaderView(t *testing.T) {
	player := &fakePlayer{position: 1.5}
	r := NewReader("My Article", testDoc(), player)
	model, _ := r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	r = model.(*Reader)
	model, _ = r.Update(tickMsg{})
	r = model.(*Reader)

	view := r.View()
	if !strings.Contains(view, "My Article") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "Hello") || !strings.Contains(view, "world") {
		t.Error("view missing current sentence words")
	}
	if !strings.Contains(view, "Goodbye now.") {
		t.Error("view missing next-sentence context")
	}
	if !strings.Contains(view, "00:01 / 00:06") {
		t.Errorf("view missing clock, got:\n%s", view)
	}
	if !strings.Contains(view, "sentence 1/2") {
		t.Error("view missing sentence counter")
	}
}

// TestReaderViewEmptyDocument tests the no-timing fallback.
func TestReaderViewEmptyDocument(t *testing.T) {
	r := NewReader("Empty", &timing.Document{Version: "1.0"}, &fakePlayer{})
	if !strings.Contains(r.View(), "no timing data") {
		t.Error("empty document should render the fallback notice")
	}
}
