package sync

import (
	"testing"

	"github.com/dgnsrekt/readaloud/timing"
)

// TestWordStates tests the past/current/future classification of words.
func TestWordStates(t *testing.T) {
	sentence := &timing.SentenceTiming{
		SentenceIndex: 0,
		Text:          "one two three.",
		Start:         0.0,
		End:           3.0,
		Words: []timing.WordTiming{
			{Word: "one", Start: 0.0, End: 1.0, Confidence: 0.9},
			{Word: "two", Start: 1.0, End: 2.0, Confidence: 0.9},
			{Word: "three", Start: 2.0, End: 3.0, Confidence: 0.9},
		},
	}

	states := WordStates(sentence, 1.5)

	if len(states) != 3 {
		t.Fatalf("expected 3 states, got %d", len(states))
	}

	if states[0].Phase != PhasePast || states[0].Progress != 1.0 {
		t.Errorf("word 0 = (%v, %v), want (past, 1.0)", states[0].Phase, states[0].Progress)
	}
	if states[1].Phase != PhaseCurrent || !almost(states[1].Progress, 0.5) {
		t.Errorf("word 1 = (%v, %v), want (current, 0.5)", states[1].Phase, states[1].Progress)
	}
	if states[2].Phase != PhaseFuture || states[2].Progress != 0.0 {
		t.Errorf("word 2 = (%v, %v), want (future, 0.0)", states[2].Phase, states[2].Progress)
	}
}

// TestWordStatesEdges tests boundary times and degenerate input.
func TestWordStatesEdges(t *testing.T) {
	sentence := &timing.SentenceTiming{
		Words: []timing.WordTiming{
			{Word: "flash", Start: 1.0, End: 1.0, Confidence: 0.5},
		},
	}

	// A zero-duration word at its own timestamp counts as past (end is
	// exclusive) with zero progress left untouched by the current branch.
	states := WordStates(sentence, 1.0)
	if states[0].Phase != PhasePast {
		t.Errorf("phase = %v, want past", states[0].Phase)
	}

	if got := WordStates(nil, 0); got != nil {
		t.Errorf("nil sentence should yield nil, got %v", got)
	}
}

// TestWordPhaseString tests the phase names.
func TestWordPhaseString(t *testing.T) {
	tests := []struct {
		phase    WordPhase
		expected string
	}{
		{PhaseFuture, "future"},
		{PhaseCurrent, "current"},
		{PhasePast, "past"},
		{WordPhase(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.expected {
			t.Errorf("Phase.String() = %q, want %q", got, tt.expected)
		}
	}
}
