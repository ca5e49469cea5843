package pipeline

import (
	"strings"
	"time"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/sentence"
	"github.com/dgallion1/sentparse/internal/tree"
)

// Result is the parse of one sentence: its tree, tagged words and
// CC-processed typed dependencies. It is not modified after construction.
type Result struct {
	Tree         *tree.Tree
	TaggedWords  []tree.TaggedWord
	Dependencies []grammar.TypedDependency
}

// String renders the tree in Penn layout, the tagged words and the typed
// dependencies, each under its own heading.
func (r *Result) String() string {
	return r.Format(model.Options{})
}

// Format renders the sections opts asks for through -outputFormat, in the
// fixed order of String.
func (r *Result) Format(opts model.Options) string {
	var sb strings.Builder
	if opts.Wants(model.FormatPenn) {
		sb.WriteString("Penn Parse :\n")
		sb.WriteString(r.Tree.PennString())
		sb.WriteString("\n")
	}
	if opts.Wants(model.FormatWordsAndTags) {
		sb.WriteString("Word And Tags :\n")
		sb.WriteString(TaggedString(r.TaggedWords))
		sb.WriteString("\n")
	}
	if opts.Wants(model.FormatTypedDependencies) {
		sb.WriteString("Typed Dependencies :\n")
		sb.WriteString(DependencyString(r.Dependencies))
		sb.WriteString("\n")
	}
	return sb.String()
}

// TaggedString renders tagged words as [w1/T1, w2/T2].
func TaggedString(words []tree.TaggedWord) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DependencyString renders dependencies as [rel(g-i, d-j), ...].
func DependencyString(deps []grammar.TypedDependency) string {
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Outcome is what one parse task produced for one sentence: a Result or an
// error, never both.
type Outcome struct {
	Index    int
	Sentence sentence.Sentence
	Result   *Result
	Err      error
	Duration time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil && o.Result != nil }
