package grammar

import (
	"errors"
	"fmt"

	"github.com/dgallion1/sentparse/internal/tree"
)

// StructureFactory builds a Structure from a parse tree. It holds no mutable
// state and is safe for concurrent use.
type StructureFactory struct {
	pack *Pack
}

// Structure is the dependency analysis of one parse tree.
type Structure struct {
	words []Word
	basic []TypedDependency
}

var errEmptyTree = errors.New("empty tree")

// NewStructure converts t into basic typed dependencies. The tree is not
// modified.
func (f *StructureFactory) NewStructure(t *tree.Tree) (*Structure, error) {
	if t == nil || t.IsLeaf() {
		return nil, errEmptyTree
	}
	if err := checkShape(t); err != nil {
		return nil, err
	}
	c := newConverter(f.pack, t)
	head := c.visit(t)
	c.add("root", RootWord, head)

	deps := c.deps
	sortDependencies(deps)
	return &Structure{words: c.words, basic: deps}, nil
}

// Words returns the indexed tokens of the sentence.
func (s *Structure) Words() []Word {
	out := make([]Word, len(s.words))
	copy(out, s.words)
	return out
}

// TypedDependencies returns the basic dependencies, or their CC-processed
// form when ccProcessed is set.
func (s *Structure) TypedDependencies(ccProcessed bool) []TypedDependency {
	if ccProcessed {
		return ccProcess(s.basic)
	}
	out := make([]TypedDependency, len(s.basic))
	copy(out, s.basic)
	return out
}

// checkShape rejects trees where a word hangs directly off a phrase.
func checkShape(t *tree.Tree) error {
	if t.IsPreTerminal() {
		return nil
	}
	for _, c := range t.Children {
		if c.IsLeaf() {
			return fmt.Errorf("word %q under phrase %q has no tag", c.Label, t.Label)
		}
		if err := checkShape(c); err != nil {
			return err
		}
	}
	return nil
}
