package timing

import "testing"

// TestWordsMatch tests the fuzzy word matching rules in order.
func TestWordsMatch(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{
			name:     "exact match",
			a:        "hello",
			b:        "hello",
			expected: true,
		},
		{
			name:     "trailing comma stripped",
			a:        "world",
			b:        "world,",
			expected: true,
		},
		{
			name:     "surrounding quotes stripped",
			a:        `"quoted"`,
			b:        "quoted",
			expected: true,
		},
		{
			name:     "parentheses stripped",
			a:        "(aside)",
			b:        "aside",
			expected: true,
		},
		{
			name:     "containment accepts possessive",
			a:        "dog",
			b:        "dog's",
			expected: true,
		},
		{
			name:     "containment accepts plural",
			a:        "cats",
			b:        "cat",
			expected: true,
		},
		{
			name:     "containment both directions",
			a:        "thinking",
			b:        "think",
			expected: true,
		},
		{
			name:     "short words never match by containment",
			a:        "a",
			b:        "an",
			expected: false,
		},
		{
			name:     "two-char words require equality",
			a:        "in",
			b:        "inn",
			expected: false,
		},
		{
			name:     "different words",
			a:        "hello",
			b:        "goodbye",
			expected: false,
		},
		{
			name:     "empty strings match",
			a:        "",
			b:        "",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordsMatch(tt.a, tt.b); got != tt.expected {
				t.Errorf("WordsMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
