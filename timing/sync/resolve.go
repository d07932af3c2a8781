// Package sync resolves playback positions against a timing document for
// real-time karaoke highlighting. Every function is pure: the resolver is
// evaluated fresh on each playback tick and keeps no state between calls.
package sync

import "github.com/dgnsrekt/readaloud/timing"

// DisplayState is the ephemeral highlighting state for one playback tick.
// Indices are -1 when nothing resolves (empty document).
type DisplayState struct {
	CurrentSentenceIndex int
	CurrentWordIndex     int
	PreviousSentence     *timing.SentenceTiming
	CurrentSentence      *timing.SentenceTiming
	NextSentence         *timing.SentenceTiming
	SentenceProgress     float64
	WordProgress         float64
	TotalProgress        float64
	CurrentTime          float64
}

// Resolve computes the display state for a playback position. The speed
// argument is accepted for interface parity but unused: playbackTime is
// expected to already be the actual elapsed audio position regardless of
// playback rate. Callers whose clock is not speed-normalized should rescale
// the document with AdjustForSpeed instead; never do both.
//
// Resolve never fails: any playbackTime and any document, including an empty
// one, yields a valid state.
func Resolve(doc *timing.Document, playbackTime float64, speed float64) DisplayState {
	_ = speed

	state := DisplayState{
		CurrentSentenceIndex: -1,
		CurrentWordIndex:     -1,
		CurrentTime:          playbackTime,
	}

	if doc == nil || len(doc.Sentences) == 0 {
		return state
	}

	sentences := doc.Sentences
	t := playbackTime

	idx := sentenceIndexAt(sentences, t)
	state.CurrentSentenceIndex = idx

	sent := &sentences[idx]
	state.CurrentSentence = sent

	if d := sent.End - sent.Start; d > 0 {
		state.SentenceProgress = clamp01((t - sent.Start) / d)
	}

	wordIdx, wordProgress := wordIndexAt(sent.Words, t)
	state.CurrentWordIndex = wordIdx
	state.WordProgress = wordProgress

	if idx > 0 {
		state.PreviousSentence = &sentences[idx-1]
	}
	if idx < len(sentences)-1 {
		state.NextSentence = &sentences[idx+1]
	}

	if doc.AudioDuration > 0 {
		// Unclamped, exceeds 1 past the end of the audio.
		state.TotalProgress = t / doc.AudioDuration
	}

	return state
}

// sentenceIndexAt finds the current sentence for a time. Rule order: exact
// containment, before the first sentence, at or after the last sentence's
// end, inside an inter-sentence gap (the next sentence wins, so highlighting
// advances promptly instead of lingering), and finally index 0.
func sentenceIndexAt(sentences []timing.SentenceTiming, t float64) int {
	for i := range sentences {
		if sentences[i].Start <= t && t < sentences[i].End {
			return i
		}
	}

	if t < sentences[0].Start {
		return 0
	}
	if t >= sentences[len(sentences)-1].End {
		return len(sentences) - 1
	}

	for i := range sentences {
		if t >= sentences[i].End {
			if i+1 < len(sentences) && t < sentences[i+1].Start {
				return i + 1
			}
		}
	}

	return 0
}

// wordIndexAt finds the current word within a sentence. Containment wins and
// carries a progress fraction; otherwise the word just before the first
// later-starting word is chosen, or the last word when t is past all of
// them. Progress stays 0 in both approximate branches.
func wordIndexAt(words []timing.WordTiming, t float64) (int, float64) {
	for i := range words {
		if words[i].Start <= t && t < words[i].End {
			progress := 0.0
			if d := words[i].End - words[i].Start; d > 0 {
				progress = (t - words[i].Start) / d
			}
			return i, progress
		}
	}

	if len(words) == 0 {
		return -1, 0
	}

	for i := range words {
		if t < words[i].Start {
			return max(0, i-1), 0
		}
	}

	return len(words) - 1, 0
}

// SentenceAt returns the sentence index containing t, using containment
// first and the document edges as fallbacks. The boolean is false when t
// falls in an inter-sentence gap or the document is empty.
func SentenceAt(doc *timing.Document, t float64) (int, bool) {
	if doc == nil || len(doc.Sentences) == 0 {
		return 0, false
	}

	sentences := doc.Sentences
	for i := range sentences {
		if sentences[i].Start <= t && t < sentences[i].End {
			return i, true
		}
	}

	if t < sentences[0].Start {
		return 0, true
	}
	if t >= sentences[len(sentences)-1].End {
		return len(sentences) - 1, true
	}

	return 0, false
}

// TimeToSentence converts a time to a sentence index plus a clamped progress
// fraction within that sentence.
func TimeToSentence(doc *timing.Document, t float64) (int, float64) {
	idx, ok := SentenceAt(doc, t)
	if !ok {
		return 0, 0
	}

	sent := doc.Sentences[idx]
	progress := 0.0
	if d := sent.End - sent.Start; d > 0 {
		progress = (t - sent.Start) / d
	}

	return idx, clamp01(progress)
}

// SentenceToTime converts a sentence index and progress fraction back to a
// time. Indices below the range map to 0 and above it to the audio duration.
func SentenceToTime(doc *timing.Document, index int, progress float64) float64 {
	if doc == nil || len(doc.Sentences) == 0 || index < 0 {
		return 0
	}
	if index >= len(doc.Sentences) {
		return doc.AudioDuration
	}

	sent := doc.Sentences[index]
	return sent.Start + (sent.End-sent.Start)*progress
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
