package grammar

import (
	"strings"
)

// ccProcess collapses prepositions and conjunctions into the relation name and
// propagates dependencies across conjuncts: prep(g, p) + pobj(p, o) becomes
// prep_p(g, o); cc(h, c) + conj(h, x) becomes conj_c(h, x); every governor of
// h also governs x, and a coordinated verb without a subject inherits h's.
func ccProcess(basic []TypedDependency) []TypedDependency {
	deps := make([]TypedDependency, len(basic))
	copy(deps, basic)
	removed := make(map[int]bool)

	collapsePrepositions(deps, removed)
	collapseConjunctions(deps, removed)

	out := make([]TypedDependency, 0, len(deps))
	seen := make(map[depKey]bool, len(deps))
	for i, d := range deps {
		if removed[i] || seen[d.key()] {
			continue
		}
		seen[d.key()] = true
		out = append(out, d)
	}
	out = propagateConjuncts(out, seen)
	sortDependencies(out)
	return out
}

func collapsePrepositions(deps []TypedDependency, removed map[int]bool) {
	objects := make(map[int]int)
	for i, d := range deps {
		if d.Relation == "pobj" {
			if _, ok := objects[d.Governor.Index]; !ok {
				objects[d.Governor.Index] = i
			}
		}
	}
	for i, d := range deps {
		if d.Relation != "prep" {
			continue
		}
		j, ok := objects[d.Dependent.Index]
		if !ok {
			continue
		}
		deps[i] = TypedDependency{
			Relation:  "prep_" + strings.ToLower(d.Dependent.Text),
			Governor:  d.Governor,
			Dependent: deps[j].Dependent,
		}
		removed[j] = true
	}
}

func collapseConjunctions(deps []TypedDependency, removed map[int]bool) {
	ccs := make(map[int][]int)
	for i, d := range deps {
		if d.Relation == "cc" {
			ccs[d.Governor.Index] = append(ccs[d.Governor.Index], i)
		}
	}
	for i, d := range deps {
		if d.Relation != "conj" {
			continue
		}
		j := pickConjunction(deps, ccs[d.Governor.Index], d.Dependent.Index)
		if j < 0 {
			continue
		}
		deps[i].Relation = "conj_" + strings.ToLower(deps[j].Dependent.Text)
		removed[j] = true
	}
}

// pickConjunction returns the conjunction closest before the conjunct, or the
// first one after it when none precedes ("a, b and c").
func pickConjunction(deps []TypedDependency, candidates []int, conjunct int) int {
	best, after := -1, -1
	for _, j := range candidates {
		idx := deps[j].Dependent.Index
		if idx < conjunct {
			if best < 0 || idx > deps[best].Dependent.Index {
				best = j
			}
		} else if after < 0 || idx < deps[after].Dependent.Index {
			after = j
		}
	}
	if best >= 0 {
		return best
	}
	return after
}

var subjectRelations = []string{"nsubj", "nsubjpass"}

func propagateConjuncts(deps []TypedDependency, seen map[depKey]bool) []TypedDependency {
	var extra []TypedDependency
	add := func(d TypedDependency) {
		if seen[d.key()] {
			return
		}
		seen[d.key()] = true
		extra = append(extra, d)
	}
	for _, c := range deps {
		if !strings.HasPrefix(c.Relation, "conj") {
			continue
		}
		head, conjunct := c.Governor, c.Dependent
		for _, d := range deps {
			if d.Dependent.Index != head.Index || !propagates(d.Relation) {
				continue
			}
			add(TypedDependency{Relation: d.Relation, Governor: d.Governor, Dependent: conjunct})
		}
		if !isVerbTag(conjunct.Tag) || hasGoverned(deps, extra, conjunct, subjectRelations) {
			continue
		}
		for _, d := range deps {
			if d.Governor.Index == head.Index && contains(subjectRelations, d.Relation) {
				add(TypedDependency{Relation: d.Relation, Governor: conjunct, Dependent: d.Dependent})
			}
		}
	}
	return append(deps, extra...)
}

func propagates(rel string) bool {
	switch {
	case rel == "root", rel == "punct", rel == "cc", strings.HasPrefix(rel, "conj"):
		return false
	}
	return true
}

func hasGoverned(deps, extra []TypedDependency, gov Word, rels []string) bool {
	for _, list := range [][]TypedDependency{deps, extra} {
		for _, d := range list {
			if d.Governor.Index == gov.Index && contains(rels, d.Relation) {
				return true
			}
		}
	}
	return false
}
