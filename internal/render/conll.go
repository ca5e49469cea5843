package render

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/pipeline"
)

// erased labels tokens that CC-processing folded into a relation name, such
// as the preposition in prep_for.
const erased = "erased"

// CoNLL writes each parsed sentence in CoNLL-U layout. HEAD and DEPREL hold
// the first incoming CC-processed edge of each token; DEPS lists all of them.
func CoNLL(w io.Writer, rep *pipeline.Report) error {
	ew := &errWriter{w: w}
	for _, o := range rep.Outcomes {
		if !o.OK() {
			continue
		}
		ew.printf("# sent_id = %d\n", o.Index+1)
		ew.printf("# text = %s\n", strings.Join(o.Sentence.Words(), " "))
		incoming := incomingEdges(o.Result.Dependencies)
		for i, tw := range o.Result.TaggedWords {
			id := i + 1
			head, rel, deps := "0", erased, "_"
			if edges := incoming[id]; len(edges) > 0 {
				head = strconv.Itoa(edges[0].Governor.Index)
				rel = edges[0].Relation
				parts := make([]string, len(edges))
				for j, e := range edges {
					parts[j] = strconv.Itoa(e.Governor.Index) + ":" + e.Relation
				}
				deps = strings.Join(parts, "|")
			}
			ew.printf("%d\t%s\t_\t_\t%s\t_\t%s\t%s\t%s\t_\n", id, tw.Word, tw.Tag, head, rel, deps)
		}
		ew.printf("\n")
	}
	return ew.err
}

func incomingEdges(deps []grammar.TypedDependency) map[int][]grammar.TypedDependency {
	out := make(map[int][]grammar.TypedDependency)
	for _, d := range deps {
		out[d.Dependent.Index] = append(out[d.Dependent.Index], d)
	}
	for _, edges := range out {
		sort.SliceStable(edges, func(i, j int) bool {
			return edges[i].Governor.Index < edges[j].Governor.Index
		})
	}
	return out
}
