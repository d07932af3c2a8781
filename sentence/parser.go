// Package sentence turns markdown documents into plain text, sentences, and
// TTS-sized chunks. Sentence indices produced here are the stable identifiers
// the timing package aligns against.
package sentence

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/readaloud/timing"
)

// Sentence terminators for segmentation and chunking: ASCII plus CJK.
const terminators = ".!?。！？"

var (
	urlRegex        = regexp.MustCompile(`https?://[^\s)\]]+`)
	whitespaceRegex = regexp.MustCompile(`[ \t]{2,}`)
	blankLineRegex  = regexp.MustCompile(`\n{3,}`)
)

// ExtractText converts markdown content to plain speakable text. Code blocks,
// inline code, images, and raw HTML are dropped entirely; link text is kept
// without its target; headings, list items, and blockquotes keep their text.
// The result is NFC-normalized.
func ExtractText(markdown string) string {
	md := goldmark.New()
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Blocks end with a blank line so headings and list
			// items read as their own sentences downstream.
			switch n.Kind() {
			case ast.KindParagraph, ast.KindHeading, ast.KindListItem, ast.KindTextBlock:
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindCodeSpan,
			ast.KindHTMLBlock, ast.KindRawHTML, ast.KindImage:
			return ast.WalkSkipChildren, nil
		case ast.KindAutoLink:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			t := n.(*ast.Text)
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString(" ")
			}
		case ast.KindString:
			b.Write(n.(*ast.String).Value)
		}

		return ast.WalkContinue, nil
	})

	out := b.String()
	out = urlRegex.ReplaceAllString(out, "")
	out = whitespaceRegex.ReplaceAllString(out, " ")
	out = blankLineRegex.ReplaceAllString(out, "\n\n")

	return norm.NFC.String(strings.TrimSpace(out))
}

// Split segments plain text into indexed sentences for alignment. A sentence
// ends at ASCII or CJK terminating punctuation; runs of terminators stay with
// the sentence they close. Empty fragments are skipped, so indices are dense
// and 0-based.
func Split(plainText string) []timing.Sentence {
	var sentences []timing.Sentence

	for _, raw := range splitAfterTerminators(plainText) {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		sentences = append(sentences, timing.Sentence{
			Index: len(sentences),
			Text:  s,
		})
	}

	return sentences
}

// splitAfterTerminators cuts text after every run of sentence terminators.
// Newlines also separate sentences so headings and list items do not merge
// into their following paragraph.
func splitAfterTerminators(text string) []string {
	var parts []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}

		current.WriteRune(r)

		if strings.ContainsRune(terminators, r) {
			// Consume the whole terminator run ("?!", "...").
			for i+1 < len(runes) && strings.ContainsRune(terminators, runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// Chunk splits plain text into pieces suitable for one TTS request, cutting
// at sentence boundaries and falling back to clause boundaries (commas,
// semicolons, colons, ASCII and CJK) for sentences longer than maxChars.
func Chunk(plainText string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = 800
	}

	clauseRegex := regexp.MustCompile(`[,;:，；：]\s*`)

	var chunks []string
	var current string

	appendPart := func(part string) {
		switch {
		case current == "":
			current = part
		case len(current)+len(part)+1 <= maxChars:
			current += " " + part
		default:
			chunks = append(chunks, current)
			current = part
		}
	}

	for _, raw := range splitAfterTerminators(plainText) {
		sent := strings.TrimSpace(raw)
		if sent == "" {
			continue
		}

		if len(sent) > maxChars {
			for _, clause := range clauseRegex.Split(sent, -1) {
				clause = strings.TrimSpace(clause)
				if clause != "" {
					appendPart(clause)
				}
			}
			continue
		}

		appendPart(sent)
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// cjkRegex covers the unified ideographs, kana, and hangul ranges where one
// character counts as one word.
var cjkRegex = regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3400}-\x{4dbf}\x{3040}-\x{309f}\x{30a0}-\x{30ff}\x{ac00}-\x{d7af}]`)

// CountWords counts words, treating each CJK character as a word and
// whitespace-separated runs as words otherwise.
func CountWords(text string) int {
	cjk := len(cjkRegex.FindAllString(text, -1))
	rest := cjkRegex.ReplaceAllString(text, " ")
	return cjk + len(strings.Fields(rest))
}

// EstimateDuration estimates speaking time in seconds from the word count at
// the given words-per-minute rate. Used before any audio exists; once audio
// is generated its measured duration wins.
func EstimateDuration(text string, wordsPerMinute int) float64 {
	if wordsPerMinute <= 0 {
		wordsPerMinute = timing.DefaultWordsPerMinute
	}
	return float64(CountWords(text)) / float64(wordsPerMinute) * 60.0
}

// Stats summarizes a plain text for display.
type Stats struct {
	Characters       int
	Words            int
	Sentences        int
	EstimatedSeconds float64
}

// TextStats computes summary statistics for plain text.
func TextStats(plainText string) Stats {
	return Stats{
		Characters:       len(plainText),
		Words:            CountWords(plainText),
		Sentences:        len(Split(plainText)),
		EstimatedSeconds: EstimateDuration(plainText, timing.DefaultWordsPerMinute),
	}
}
