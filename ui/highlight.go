package ui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/readaloud/timing"
	"github.com/dgnsrekt/readaloud/timing/sync"
)

// renderSentence renders one sentence with karaoke word highlighting for the
// given playback time, wrapped to width. Words are colored by phase: spoken,
// speaking, and unspoken.
func renderSentence(s *timing.SentenceTiming, currentTime float64, width int) string {
	if s == nil {
		return ""
	}

	states := sync.WordStates(s, currentTime)
	if len(states) == 0 {
		return wrap(s.Text, width)
	}

	parts := make([]string, len(states))
	for i, w := range states {
		switch w.Phase {
		case sync.PhasePast:
			parts[i] = pastWordStyle.Render(w.Word)
		case sync.PhaseCurrent:
			parts[i] = currentWordStyle.Render(w.Word)
		default:
			parts[i] = futureWordStyle.Render(w.Word)
		}
	}

	return wrap(strings.Join(parts, " "), width)
}

// renderContext renders a neighboring sentence in the dim context style.
func renderContext(s *timing.SentenceTiming, width int) string {
	if s == nil {
		return ""
	}
	return contextSentenceStyle.Render(wrap(s.Text, width))
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
