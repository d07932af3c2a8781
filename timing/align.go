package timing

import "strings"

// Search window bounds around the transcript cursor. The mapper looks a few
// words behind the cursor to tolerate small reorderings and far enough ahead
// to cover the whole sentence plus transcription noise.
const (
	windowBehind = 5
	windowAhead  = 10
)

// Cutset stripped from transcript words before fuzzy matching. Narrower than
// the matcher's own cutset on purpose; parentheses and hyphens are left for
// WordsMatch to handle.
const transcriptCutset = ".,!?;:'\""

// defaultSentenceSpan is the placeholder duration, in seconds, assigned to a
// sentence with no matched words. The interpolator distributes word slots
// inside it but never revisits the span itself.
const defaultSentenceSpan = 2.0

// FlattenSegments flattens transcription segments into a single ordered word
// list. Word text is trimmed, records missing a start or end timestamp are
// dropped, and a missing score defaults to ConfidenceEngine.
func FlattenSegments(segments []Segment) []TimestampedWord {
	var words []TimestampedWord
	for _, seg := range segments {
		for _, w := range seg.Words {
			if w.Start == nil || w.End == nil {
				continue
			}
			confidence := ConfidenceEngine
			if w.Score != nil {
				confidence = *w.Score
			}
			words = append(words, TimestampedWord{
				Word:       strings.TrimSpace(w.Word),
				Start:      *w.Start,
				End:        *w.End,
				Confidence: confidence,
			})
		}
	}
	return words
}

// MapWords assigns transcript timestamps to the words of each source
// sentence. It processes sentences in index order while a single cursor
// advances monotonically through the transcript; a transcript word is never
// reused for two sentence words, and an engine that emits words out of
// textual order cannot be recovered from. Words without a match in the
// search window are left unresolved for InterpolateMissing. Absence of a
// match is data, not an error.
func MapWords(words []TimestampedWord, sentences []Sentence) []MappedSentence {
	mapped := make([]MappedSentence, 0, len(sentences))
	wordIdx := 0

	for _, sent := range sentences {
		expected := Tokenize(sent.Text)

		ms := MappedSentence{
			Index: sent.Index,
			Text:  sent.Text,
			Words: make([]MappedWord, 0, len(expected)),
		}

		var sentStart, sentEnd *float64

		for pos, expectedWord := range expected {
			target := strings.ToLower(expectedWord)

			remaining := len(expected) - pos
			matchIdx := -1
			searchStart := max(0, wordIdx-windowBehind)
			searchEnd := min(len(words), wordIdx+remaining+windowAhead)

			for i := searchStart; i < searchEnd; i++ {
				candidate := strings.Trim(strings.ToLower(words[i].Word), transcriptCutset)
				if WordsMatch(target, candidate) {
					matchIdx = i
					break
				}
			}

			if matchIdx >= 0 {
				match := words[matchIdx]
				start, end := match.Start, match.End
				ms.Words = append(ms.Words, MappedWord{
					Word:       expectedWord,
					Start:      &start,
					End:        &end,
					Confidence: match.Confidence,
				})

				if sentStart == nil {
					sentStart = &start
				}
				sentEnd = &end

				wordIdx = matchIdx + 1
			} else {
				ms.Words = append(ms.Words, MappedWord{Word: expectedWord})
			}
		}

		// A sentence with no matches starts where the previous one
		// ended and gets a fixed placeholder span.
		if sentStart == nil {
			prev := 0.0
			if len(mapped) > 0 {
				prev = mapped[len(mapped)-1].End
			}
			sentStart = &prev
		}
		if sentEnd == nil {
			end := *sentStart + defaultSentenceSpan
			sentEnd = &end
		}

		ms.Start = *sentStart
		ms.End = *sentEnd
		mapped = append(mapped, ms)
	}

	return mapped
}

// Align runs the full precise pipeline: map transcript words onto sentences,
// interpolate every unresolved timestamp, and build a complete Document.
func Align(words []TimestampedWord, sentences []Sentence, audioDuration float64) *Document {
	mapped := MapWords(words, sentences)
	InterpolateMissing(mapped, audioDuration)
	return buildDocument(mapped, audioDuration)
}

// buildDocument collapses resolved mapper output into the persisted form.
// InterpolateMissing guarantees no nil timing remains; a nil here would be a
// bug in this package, so it is not defended against.
func buildDocument(mapped []MappedSentence, audioDuration float64) *Document {
	doc := &Document{
		Version:       DocumentVersion,
		AudioDuration: audioDuration,
		Sentences:     make([]SentenceTiming, 0, len(mapped)),
	}

	for _, ms := range mapped {
		st := SentenceTiming{
			SentenceIndex: ms.Index,
			Text:          ms.Text,
			Start:         ms.Start,
			End:           ms.End,
			Words:         make([]WordTiming, 0, len(ms.Words)),
		}
		for _, w := range ms.Words {
			st.Words = append(st.Words, WordTiming{
				Word:       w.Word,
				Start:      *w.Start,
				End:        *w.End,
				Confidence: w.Confidence,
			})
		}
		doc.Sentences = append(doc.Sentences, st)
	}

	return doc
}
