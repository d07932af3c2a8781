package timing

// InterpolateMissing resolves every unresolved word timing in place, then
// clamps all timestamps to [0, audioDuration]. It runs once per document,
// after MapWords. Gaps are filled using only originally matched anchors,
// never other interpolated values, so a single pass per sentence suffices.
func InterpolateMissing(sentences []MappedSentence, audioDuration float64) {
	for s := range sentences {
		words := sentences[s].Words
		if len(words) == 0 {
			continue
		}

		var knownIndices []int
		for i := range words {
			if words[i].Start != nil {
				knownIndices = append(knownIndices, i)
			}
		}

		if len(knownIndices) == 0 {
			// No anchors at all: distribute the sentence span evenly.
			sentStart := sentences[s].Start
			sentEnd := sentences[s].End
			slot := (sentEnd - sentStart) / float64(len(words))

			for i := range words {
				start := sentStart + float64(i)*slot
				end := sentStart + float64(i+1)*slot
				words[i].Start = &start
				words[i].End = &end
				words[i].Confidence = ConfidenceInterpolated
			}
			clampWords(words, audioDuration)
			continue
		}

		for i := range words {
			if words[i].Start != nil {
				continue
			}

			prevIdx, nextIdx := -1, -1
			for _, ki := range knownIndices {
				if ki < i {
					prevIdx = ki
				} else if ki > i {
					nextIdx = ki
					break
				}
			}

			var start, end float64
			switch {
			case prevIdx >= 0 && nextIdx >= 0:
				// Interior gap: the word's center sits at
				// prev.end + (offset-0.5) slot widths and it
				// spans one slot, which minimizes worst-case
				// displacement when several consecutive words
				// are missing.
				prevEnd := *words[prevIdx].End
				nextStart := *words[nextIdx].Start
				gapWords := nextIdx - prevIdx - 1
				slot := (nextStart - prevEnd) / float64(gapWords+1)
				offset := float64(i - prevIdx)
				center := prevEnd + (offset-0.5)*slot
				start = center - slot/2
				end = center + slot/2

			case prevIdx >= 0:
				// Trailing words: extrapolate forward using the
				// anchor's own duration, back to back.
				avg := *words[prevIdx].End - *words[prevIdx].Start
				offset := float64(i - prevIdx)
				start = *words[prevIdx].End + (offset-1)*avg
				end = start + avg

			default:
				// Leading words: symmetric backward extrapolation.
				avg := *words[nextIdx].End - *words[nextIdx].Start
				offset := float64(nextIdx - i)
				end = *words[nextIdx].Start - (offset-1)*avg
				start = end - avg
			}

			words[i].Start = &start
			words[i].End = &end
			words[i].Confidence = ConfidenceInterpolated
		}

		clampWords(words, audioDuration)
	}
}

// clampWords bounds every timestamp to [0, audioDuration], with end never
// preceding the clamped start.
func clampWords(words []MappedWord, audioDuration float64) {
	for i := range words {
		start := clamp(*words[i].Start, 0, audioDuration)
		end := min(*words[i].End, audioDuration)
		if end < start {
			end = start
		}
		words[i].Start = &start
		words[i].End = &end
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
