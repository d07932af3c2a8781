package sentence

import (
	"strings"
	"testing"
)

// TestExtractText tests markdown-to-plain-text conversion.
func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and paragraph",
			markdown: "# Title\n\nSome body text.",
			contains: []string{"Title", "Some body text."},
			excludes: []string{"#"},
		},
		{
			name:     "fenced code block dropped",
			markdown: "Before.\n\n```go\nfmt.Println(\"hi\")\n```\n\nAfter.",
			contains: []string{"Before.", "After."},
			excludes: []string{"fmt.Println"},
		},
		{
			name:     "inline code dropped",
			markdown: "Run `go test` to verify.",
			contains: []string{"Run", "to verify."},
			excludes: []string{"go test"},
		},
		{
			name:     "link keeps text not target",
			markdown: "See [the docs](https://example.com/docs) for more.",
			contains: []string{"the docs", "for more."},
			excludes: []string{"example.com"},
		},
		{
			name:     "image dropped",
			markdown: "Look: ![alt text](pic.png) done.",
			contains: []string{"done."},
			excludes: []string{"pic.png", "alt text"},
		},
		{
			name:     "bare url stripped",
			markdown: "Visit https://example.com/page now.",
			contains: []string{"Visit", "now."},
			excludes: []string{"example.com"},
		},
		{
			name:     "emphasis keeps text",
			markdown: "This is **bold** and *italic*.",
			contains: []string{"bold", "italic"},
			excludes: []string{"*"},
		},
		{
			name:     "list items kept",
			markdown: "- First item.\n- Second item.",
			contains: []string{"First item.", "Second item."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractText(tt.markdown)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output %q missing %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output %q should not contain %q", got, bad)
				}
			}
		})
	}
}

// TestExtractTextNormalizesNFC tests that decomposed characters come out
// composed.
func TestExtractTextNormalizesNFC(t *testing.T) {
	// "e" + combining acute accent should normalize to the single rune.
	got := ExtractText("café")
	if !strings.Contains(got, "café") {
		t.Errorf("expected NFC-composed output, got %q", got)
	}
}

// TestSplit tests sentence segmentation and index assignment.
func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "simple sentences",
			text:     "Hello world. How are you? Fine!",
			expected: []string{"Hello world.", "How are you?", "Fine!"},
		},
		{
			name:     "terminator runs stay attached",
			text:     "Really?! Yes... sure.",
			expected: []string{"Really?!", "Yes...", "sure."},
		},
		{
			name:     "cjk terminators",
			text:     "これはペンです。そうですか？",
			expected: []string{"これはペンです。", "そうですか？"},
		},
		{
			name:     "newline separates unterminated lines",
			text:     "A heading\nFollowing paragraph.",
			expected: []string{"A heading", "Following paragraph."},
		},
		{
			name:     "trailing fragment kept",
			text:     "Complete sentence. trailing fragment",
			expected: []string{"Complete sentence.", "trailing fragment"},
		},
		{
			name:     "empty input",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			text:     "   \n  \n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d sentences %v, want %d", len(got), got, len(tt.expected))
			}
			for i, s := range got {
				if s.Index != i {
					t.Errorf("sentence %d has index %d", i, s.Index)
				}
				if s.Text != tt.expected[i] {
					t.Errorf("sentence %d = %q, want %q", i, s.Text, tt.expected[i])
				}
			}
		})
	}
}

// TestChunk tests TTS chunking at sentence and clause boundaries.
func TestChunk(t *testing.T) {
	t.Run("sentences pack into chunks", func(t *testing.T) {
		text := "One. Two. Three. Four."
		chunks := Chunk(text, 12)
		if len(chunks) != 2 {
			t.Fatalf("got %d chunks %v, want 2", len(chunks), chunks)
		}
		if chunks[0] != "One. Two." || chunks[1] != "Three. Four." {
			t.Errorf("chunks = %v", chunks)
		}
	})

	t.Run("long sentence splits at clauses", func(t *testing.T) {
		long := strings.Repeat("alpha beta gamma, ", 10) + "end."
		chunks := Chunk(long, 60)
		if len(chunks) < 2 {
			t.Fatalf("expected clause-level split, got %v", chunks)
		}
		for _, c := range chunks {
			if c == "" {
				t.Error("empty chunk")
			}
		}
	})

	t.Run("everything fits in one chunk", func(t *testing.T) {
		chunks := Chunk("Short text.", 800)
		if len(chunks) != 1 || chunks[0] != "Short text." {
			t.Errorf("chunks = %v", chunks)
		}
	})

	t.Run("zero max uses default", func(t *testing.T) {
		chunks := Chunk("Hello there.", 0)
		if len(chunks) != 1 {
			t.Errorf("chunks = %v", chunks)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if chunks := Chunk("", 100); chunks != nil {
			t.Errorf("expected nil, got %v", chunks)
		}
	})
}

// TestChunkCoversAllWords tests that chunking loses no words.
func TestChunkCoversAllWords(t *testing.T) {
	text := "First sentence here. Second one follows, with a clause. Third wraps it up!"
	joined := strings.Join(Chunk(text, 30), " ")
	for _, word := range strings.Fields(strings.NewReplacer(",", "", ".", "", "!", "").Replace(text)) {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q lost in chunking: %q", word, joined)
		}
	}
}

// TestCountWords tests whitespace and CJK word counting.
func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "plain english", text: "three little words", expected: 3},
		{name: "extra whitespace", text: "  spaced   out  ", expected: 2},
		{name: "cjk characters count individually", text: "日本語", expected: 3},
		{name: "mixed", text: "hello 世界 again", expected: 4},
		{name: "empty", text: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.expected {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

// TestEstimateDuration tests the reading-time estimate.
func TestEstimateDuration(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 150))

	if got := EstimateDuration(text, 150); got != 60.0 {
		t.Errorf("150 words at 150 wpm = %v, want 60", got)
	}
	// Non-positive rates fall back to the default.
	if got := EstimateDuration(text, 0); got != 60.0 {
		t.Errorf("default rate estimate = %v, want 60", got)
	}
}

// TestTextStats tests the summary aggregate.
func TestTextStats(t *testing.T) {
	stats := TextStats("One two three. Four five.")

	if stats.Words != 5 {
		t.Errorf("words = %d, want 5", stats.Words)
	}
	if stats.Sentences != 2 {
		t.Errorf("sentences = %d, want 2", stats.Sentences)
	}
	if stats.Characters != len("One two three. Four five.") {
		t.Errorf("characters = %d", stats.Characters)
	}
	if stats.EstimatedSeconds <= 0 {
		t.Errorf("estimated seconds = %v, want > 0", stats.EstimatedSeconds)
	}
}
