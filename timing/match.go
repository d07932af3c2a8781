package timing

import "strings"

// matchCutset is the punctuation stripped from both sides before comparing.
const matchCutset = ".,!?;:'\"()-"

// WordsMatch reports whether two word strings denote the same spoken word.
// Comparison is, in order: exact equality, equality after stripping leading
// and trailing punctuation, and containment in either direction when both
// stripped forms are longer than two characters. Containment intentionally
// accepts contractions and plural or possessive forms at the cost of false
// positives on short, similarly spelled words. Callers are expected to
// lowercase both arguments.
func WordsMatch(a, b string) bool {
	if a == b {
		return true
	}

	sa := strings.Trim(a, matchCutset)
	sb := strings.Trim(b, matchCutset)

	if sa == sb {
		return true
	}

	if len(sa) > 2 && len(sb) > 2 {
		if strings.Contains(sb, sa) || strings.Contains(sa, sb) {
			return true
		}
	}

	return false
}
