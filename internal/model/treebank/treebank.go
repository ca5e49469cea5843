// Package treebank implements a model that serves pre-computed parses from a
// bracketed treebank, keyed by the sentence's words.
package treebank

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/sentence"
	"github.com/dgallion1/sentparse/internal/tree"
)

// Builtin names the embedded English treebank.
const Builtin = "builtin:english"

//go:embed english.mrg
var englishTreebank []byte

// Model looks parses up by their token yield. It is safe for concurrent use.
type Model struct {
	source string
	opts   model.Options
	pack   *grammar.Pack
	trees  map[string]*tree.Tree
}

// Load reads the treebank at path, or the embedded one when path is empty or
// Builtin.
func Load(path string, opts model.Options) (*Model, error) {
	var r io.Reader
	switch path {
	case "", Builtin:
		path = Builtin
		r = bytes.NewReader(englishTreebank)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open treebank: %w", err)
		}
		defer f.Close()
		r = f
	}
	trees, err := tree.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read treebank %s: %w", path, err)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("treebank %s contains no trees", path)
	}
	m := New(trees, opts)
	m.source = path
	return m, nil
}

// New builds a model over trees. Punctuation and empty-element leaves are
// pruned, since sentences arrive with punctuation removed. Later duplicates of
// a sentence are ignored.
func New(trees []*tree.Tree, opts model.Options) *Model {
	m := &Model{
		source: "memory",
		opts:   opts,
		pack:   grammar.English(),
		trees:  make(map[string]*tree.Tree, len(trees)),
	}
	for _, t := range trees {
		t = t.Copy()
		if !prunePunctuation(t, m.pack) {
			continue
		}
		key := Key(t.Yield())
		if key == "" {
			continue
		}
		if _, dup := m.trees[key]; dup {
			continue
		}
		stripFunctionTags(t, opts.RetainTmpSubcategories)
		m.trees[key] = t
	}
	return m
}

// Key is the lookup key for a sentence: its words after sentence
// normalization, so "U.S." in a tree matches "US" from the pipeline.
func Key(words []string) string {
	return strings.Join(strings.Fields(sentence.Normalize(words)), " ")
}

// Parse returns a copy of the stored tree for words.
func (m *Model) Parse(ctx context.Context, words []string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.opts.CheckLength(words); err != nil {
		return nil, err
	}
	t, ok := m.trees[Key(words)]
	if !ok {
		return nil, fmt.Errorf("%w: %q not in treebank %s", model.ErrNoParse, Key(words), m.source)
	}
	return t.Copy(), nil
}

func (m *Model) LanguagePack() *grammar.Pack { return m.pack }

// Len reports how many sentences the treebank covers.
func (m *Model) Len() int { return len(m.trees) }

func (m *Model) Source() string { return m.source }

func (m *Model) Close() error { return nil }

// stripFunctionTags reduces phrase and tag labels to their category. With
// retainTmp, NP-TMP style labels keep their -TMP marker.
func stripFunctionTags(t *tree.Tree, retainTmp bool) {
	if t.IsLeaf() {
		return
	}
	cat := grammar.Category(t.Label)
	if retainTmp && grammar.IsTemporal(t.Label) {
		cat += "-TMP"
	}
	t.Label = cat
	for _, c := range t.Children {
		stripFunctionTags(c, retainTmp)
	}
}

// prunePunctuation removes punctuation preterminals and the phrases they leave
// empty. It reports whether anything remains under t.
func prunePunctuation(t *tree.Tree, pack *grammar.Pack) bool {
	if t.IsLeaf() {
		return true
	}
	if t.IsPreTerminal() {
		return !pack.IsPunctuationTag(t.Label)
	}
	kept := t.Children[:0]
	for _, c := range t.Children {
		if prunePunctuation(c, pack) {
			kept = append(kept, c)
		}
	}
	t.Children = kept
	return len(kept) > 0
}
