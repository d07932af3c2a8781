package timing

import (
	"regexp"
	"strings"
)

// Word tokens are maximal runs of letters, digits, underscores, and
// apostrophes. Everything else is a separator.
var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}_']+`)

// Tokenize extracts word tokens from text in left-to-right order, preserving
// the original form of each word. Punctuation and whitespace are discarded.
// Apostrophes survive inside a token ("don't") but not at its edges.
func Tokenize(text string) []string {
	matches := tokenRegex.FindAllString(text, -1)
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.Trim(m, "'")
		if m != "" {
			words = append(words, m)
		}
	}
	return words
}
