package grammar

import (
	"fmt"
	"sort"
)

// Word is a token of a parsed sentence. Index is 1-based; the artificial root
// has index 0.
type Word struct {
	Text  string `json:"word" yaml:"word"`
	Tag   string `json:"tag" yaml:"tag"`
	Index int    `json:"index" yaml:"index"`
}

// RootWord governs the head of the sentence.
var RootWord = Word{Text: "ROOT", Index: 0}

func (w Word) String() string {
	return fmt.Sprintf("%s-%d", w.Text, w.Index)
}

// TypedDependency is a labeled edge from a governor to a dependent.
type TypedDependency struct {
	Relation  string `json:"relation" yaml:"relation"`
	Governor  Word   `json:"governor" yaml:"governor"`
	Dependent Word   `json:"dependent" yaml:"dependent"`
}

func (d TypedDependency) String() string {
	return fmt.Sprintf("%s(%s, %s)", d.Relation, d.Governor, d.Dependent)
}

func (d TypedDependency) key() depKey {
	return depKey{rel: d.Relation, gov: d.Governor.Index, dep: d.Dependent.Index}
}

type depKey struct {
	rel      string
	gov, dep int
}

// sortDependencies orders edges by dependent, then governor, then relation.
func sortDependencies(deps []TypedDependency) {
	sort.SliceStable(deps, func(i, j int) bool {
		a, b := deps[i], deps[j]
		if a.Dependent.Index != b.Dependent.Index {
			return a.Dependent.Index < b.Dependent.Index
		}
		if a.Governor.Index != b.Governor.Index {
			return a.Governor.Index < b.Governor.Index
		}
		return a.Relation < b.Relation
	})
}
