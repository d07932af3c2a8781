package timing

// DefaultWordsPerMinute is the assumed speaking rate for duration estimates
// made before any audio exists.
const DefaultWordsPerMinute = 150

// Estimate produces a complete timing document without any transcription,
// by allocating the audio duration uniformly across every word in the
// document. All words are tagged ConfidenceEstimate. The wordsPerMinute
// argument is kept for parity with pre-synthesis duration estimates; once
// real audio exists the uniform rate is derived from its measured duration
// instead.
func Estimate(sentences []Sentence, audioDuration float64, wordsPerMinute int) *Document {
	doc := &Document{
		Version:       DocumentVersion,
		AudioDuration: audioDuration,
		Sentences:     []SentenceTiming{},
	}

	totalWords := 0
	tokenized := make([][]string, len(sentences))
	for i, sent := range sentences {
		tokenized[i] = Tokenize(sent.Text)
		totalWords += len(tokenized[i])
	}

	if totalWords == 0 {
		return doc
	}

	timePerWord := audioDuration / float64(totalWords)
	currentTime := 0.0

	for i, sent := range sentences {
		words := tokenized[i]
		sentDuration := float64(len(words)) * timePerWord

		wordTimings := make([]WordTiming, 0, len(words))
		for j, word := range words {
			start := currentTime + float64(j)*timePerWord
			wordTimings = append(wordTimings, WordTiming{
				Word:       word,
				Start:      start,
				End:        start + timePerWord,
				Confidence: ConfidenceEstimate,
			})
		}

		doc.Sentences = append(doc.Sentences, SentenceTiming{
			SentenceIndex: sent.Index,
			Text:          sent.Text,
			Start:         currentTime,
			End:           currentTime + sentDuration,
			Words:         wordTimings,
		})

		currentTime += sentDuration
	}

	return doc
}
