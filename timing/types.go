package timing

// DocumentVersion is the on-disk format version written to timing.json.
const DocumentVersion = "1.0"

// Confidence markers describing how a timestamp was derived. These are tags,
// not probabilities.
const (
	// ConfidenceEngine is the default for words reported by the
	// transcription engine without a score of their own.
	ConfidenceEngine = 0.9
	// ConfidenceInterpolated marks timestamps filled in by interpolation
	// or extrapolation between known anchors.
	ConfidenceInterpolated = 0.5
	// ConfidenceEstimate marks timestamps derived purely from a constant
	// words-per-minute rate, without any transcription.
	ConfidenceEstimate = 0.3
)

// Sentence is a source sentence as produced by sentence segmentation.
// Indices are 0-based, strictly increasing, and stable.
type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// TimestampedWord is a single word from the transcription engine, flattened
// out of its segment. Start and End are seconds from the beginning of the
// audio; End >= Start by construction of the engine.
type TimestampedWord struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// SegmentWord mirrors the per-word records inside a transcription segment.
// Start, End, and Score are pointers because engines may omit them; records
// without timestamps are dropped during flattening.
type SegmentWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Segment is one transcription segment with word-level records.
type Segment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []SegmentWord `json:"words"`
}

// WordTiming is a fully resolved word timestamp. The word text carries the
// original casing from the source sentence, not the engine transcription.
type WordTiming struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// SentenceTiming holds the resolved timing for one source sentence. Words
// covers the same tokens, in the same order, as tokenizing Text. Adjacent
// words may overlap slightly at interpolated boundaries, but every value
// lies within [0, audio duration].
type SentenceTiming struct {
	SentenceIndex int          `json:"sentence_index"`
	Text          string       `json:"text"`
	Start         float64      `json:"start"`
	End           float64      `json:"end"`
	Words         []WordTiming `json:"words"`
}

// Document is the persisted timing artifact for one library item. It is
// created once per successful generation and replaced wholesale on
// regeneration.
type Document struct {
	Version       string           `json:"version"`
	AudioDuration float64          `json:"audio_duration"`
	Sentences     []SentenceTiming `json:"sentences"`
}

// MappedWord is a word produced by the mapper whose timing may still be
// unresolved. Start and End are nil until a transcript match is found or the
// interpolator fills them; no nil survives past InterpolateMissing.
type MappedWord struct {
	Word       string
	Start      *float64
	End        *float64
	Confidence float64
}

// MappedSentence is the mapper's per-sentence output, resolved in place by
// InterpolateMissing and collapsed into a SentenceTiming afterwards.
type MappedSentence struct {
	Index int
	Text  string
	Start float64
	End   float64
	Words []MappedWord
}
