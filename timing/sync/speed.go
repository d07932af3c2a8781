package sync

import "github.com/dgnsrekt/readaloud/timing"

// AdjustForSpeed rescales an entire timing document by a playback speed
// factor, returning a copy. It exists for callers whose playback clock is
// NOT already speed-normalized; Resolve assumes the opposite convention, so
// an integration must pick exactly one of the two or highlighting drifts by
// the speed factor squared. Speed 1 (or an invalid factor) returns the
// document unchanged.
func AdjustForSpeed(doc *timing.Document, speed float64) *timing.Document {
	if doc == nil || speed == 1.0 || speed <= 0 {
		return doc
	}

	adjusted := &timing.Document{
		Version:       doc.Version,
		AudioDuration: doc.AudioDuration / speed,
		Sentences:     make([]timing.SentenceTiming, 0, len(doc.Sentences)),
	}

	for _, sent := range doc.Sentences {
		as := timing.SentenceTiming{
			SentenceIndex: sent.SentenceIndex,
			Text:          sent.Text,
			Start:         sent.Start / speed,
			End:           sent.End / speed,
			Words:         make([]timing.WordTiming, 0, len(sent.Words)),
		}
		for _, w := range sent.Words {
			as.Words = append(as.Words, timing.WordTiming{
				Word:       w.Word,
				Start:      w.Start / speed,
				End:        w.End / speed,
				Confidence: w.Confidence,
			})
		}
		adjusted.Sentences = append(adjusted.Sentences, as)
	}

	return adjusted
}
