// Package sentence normalizes segmented sentences and filters them by length.
package sentence

import (
	"strings"
	"unicode"
)

// DefaultMaxWords is the longest sentence, in words, that is sent to the parser.
const DefaultMaxWords = 30

// quoteArtifact is what remains of an opening-quote token once punctuation
// has been removed; the backtick is a symbol, not punctuation.
const quoteArtifact = "`` "

// Sentence is a normalized sentence and its position in segmenter output.
type Sentence struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`
}

// Words splits the sentence on whitespace.
func (s Sentence) Words() []string {
	return strings.Fields(s.Text)
}

// Normalize joins tokens with single spaces and cleans the result with
// NormalizeText.
func Normalize(tokens []string) string {
	return NormalizeText(strings.Join(tokens, " "))
}

// NormalizeText removes every punctuation rune and then every "`` " sequence.
// Removal repeats until none is left, so normalized text is a fixed point.
func NormalizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
	for strings.Contains(s, quoteArtifact) {
		s = strings.ReplaceAll(s, quoteArtifact, "")
	}
	return s
}

// WordCount is the number of whitespace-delimited words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Keep reports whether a sentence of n words is parsed: 0 < n <= limit.
func Keep(n, limit int) bool {
	return n > 0 && n <= limit
}

// Filter splits sentences into those within (0, limit] words and those
// dropped. Both keep input order.
func Filter(sents []Sentence, limit int) (kept, dropped []Sentence) {
	for _, s := range sents {
		if Keep(WordCount(s.Text), limit) {
			kept = append(kept, s)
		} else {
			dropped = append(dropped, s)
		}
	}
	return kept, dropped
}

// Prepare normalizes each segmented sentence, assigning indexes in segmenter
// order.
func Prepare(segmented [][]string) []Sentence {
	out := make([]Sentence, len(segmented))
	for i, toks := range segmented {
		out[i] = Sentence{Index: i, Text: Normalize(toks)}
	}
	return out
}
