// Package segment splits a paragraph into sentences of tokens.
package segment

import (
	"fmt"
	"os"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits text into sentences, each an ordered token sequence.
type Segmenter interface {
	Segment(text string) [][]string
}

// Names accepted by New.
const (
	PTBName   = "ptb"
	PunktName = "punkt"
)

// New returns the segmenter called name. trainingPath optionally points the
// punkt segmenter at a JSON training file instead of the bundled English one.
func New(name, trainingPath string) (Segmenter, error) {
	switch name {
	case "", PTBName:
		return PTB{}, nil
	case PunktName:
		return NewPunkt(trainingPath)
	default:
		return nil, fmt.Errorf("unknown segmenter %q", name)
	}
}

// PTB tokenizes the whole paragraph and ends a sentence after each '.', '?' or
// '!' token. Closing quotes and brackets that follow stay with the sentence
// they close.
type PTB struct{}

func (PTB) Segment(text string) [][]string {
	return Split(Tokenize(text))
}

// Split groups tokens into sentences.
func Split(tokens []string) [][]string {
	var out [][]string
	var cur []string
	for i := 0; i < len(tokens); i++ {
		cur = append(cur, tokens[i])
		if !isBoundary(tokens[i]) {
			continue
		}
		for i+1 < len(tokens) && isCloser(tokens[i+1]) {
			i++
			cur = append(cur, tokens[i])
		}
		out = append(out, cur)
		cur = nil
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func isBoundary(tok string) bool {
	if tok == "." {
		return true
	}
	return tok != "" && strings.Trim(tok, "!?") == ""
}

func isCloser(tok string) bool {
	switch tok {
	case "''", "'", ")", "]", "}":
		return true
	}
	return false
}

// Punkt finds sentence boundaries with an unsupervised punkt model and then
// tokenizes each sentence.
type Punkt struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewPunkt loads the bundled English model, or the training data at path.
func NewPunkt(path string) (*Punkt, error) {
	if path == "" {
		tok, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			return nil, fmt.Errorf("load english punkt model: %w", err)
		}
		return &Punkt{tok: tok}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read punkt training: %w", err)
	}
	storage, err := sentences.LoadTraining(data)
	if err != nil {
		return nil, fmt.Errorf("load punkt training: %w", err)
	}
	return &Punkt{tok: sentences.NewSentenceTokenizer(storage)}, nil
}

func (p *Punkt) Segment(text string) [][]string {
	var out [][]string
	for _, s := range p.tok.Tokenize(text) {
		toks := Tokenize(s.Text)
		if len(toks) > 0 {
			out = append(out, toks)
		}
	}
	return out
}
