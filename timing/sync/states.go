package sync

import "github.com/dgnsrekt/readaloud/timing"

// WordPhase classifies a word relative to the playback position.
type WordPhase int

const (
	// PhaseFuture means playback has not reached the word yet.
	PhaseFuture WordPhase = iota
	// PhaseCurrent means the word is being spoken right now.
	PhaseCurrent
	// PhasePast means the word has already been spoken.
	PhasePast
)

// String returns the lowercase name of the phase.
func (p WordPhase) String() string {
	switch p {
	case PhaseFuture:
		return "future"
	case PhaseCurrent:
		return "current"
	case PhasePast:
		return "past"
	default:
		return "unknown"
	}
}

// WordState is the per-word display state within a sentence.
type WordState struct {
	Index    int
	Word     string
	Phase    WordPhase
	Progress float64
	Start    float64
	End      float64
}

// WordStates computes the phase and progress of every word in a sentence at
// the given playback time, for karaoke rendering.
func WordStates(sentence *timing.SentenceTiming, currentTime float64) []WordState {
	if sentence == nil {
		return nil
	}

	states := make([]WordState, 0, len(sentence.Words))
	for i, w := range sentence.Words {
		ws := WordState{
			Index: i,
			Word:  w.Word,
			Start: w.Start,
			End:   w.End,
		}

		switch {
		case currentTime < w.Start:
			ws.Phase = PhaseFuture
		case currentTime >= w.End:
			ws.Phase = PhasePast
			ws.Progress = 1.0
		default:
			ws.Phase = PhaseCurrent
			if d := w.End - w.Start; d > 0 {
				ws.Progress = (currentTime - w.Start) / d
			}
		}

		states = append(states, ws)
	}

	return states
}
