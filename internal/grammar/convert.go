package grammar

import (
	"strings"

	"github.com/dgallion1/sentparse/internal/tree"
)

type converter struct {
	pack  *Pack
	words []Word
	index map[*tree.Tree]Word
	deps  []TypedDependency
	seen  map[depKey]bool
}

// phrase is an interior node with the head words of its children.
type phrase struct {
	cat   string
	kids  []*tree.Tree
	heads []Word
}

func newConverter(p *Pack, t *tree.Tree) *converter {
	c := &converter{
		pack:  p,
		index: make(map[*tree.Tree]Word),
		seen:  make(map[depKey]bool),
	}
	for i, pt := range t.Preterminals() {
		w := Word{Text: pt.Children[0].Label, Tag: pt.Label, Index: i + 1}
		c.words = append(c.words, w)
		c.index[pt] = w
	}
	return c
}

func (c *converter) add(rel string, gov, dep Word) {
	d := TypedDependency{Relation: rel, Governor: gov, Dependent: dep}
	if c.seen[d.key()] {
		return
	}
	c.seen[d.key()] = true
	c.deps = append(c.deps, d)
}

func (c *converter) hasRel(gov Word, rels ...string) bool {
	for _, d := range c.deps {
		if d.Governor.Index != gov.Index {
			continue
		}
		for _, r := range rels {
			if d.Relation == r {
				return true
			}
		}
	}
	return false
}

// visit attaches the dependents of n and returns its head word.
func (c *converter) visit(n *tree.Tree) Word {
	if n.IsPreTerminal() {
		return c.index[n]
	}
	ph := &phrase{cat: Category(n.Label), kids: n.Children, heads: make([]Word, len(n.Children))}
	for i, k := range n.Children {
		ph.heads[i] = c.visit(k)
	}
	if groups, seps, ok := c.coordination(ph); ok {
		return c.attachCoordination(ph, groups, seps)
	}
	all := make([]int, len(ph.kids))
	for i := range all {
		all[i] = i
	}
	h := c.headChild(ph, all)
	c.attach(ph, h, all)
	return ph.heads[h]
}

func (c *converter) attach(ph *phrase, h int, members []int) {
	for _, i := range members {
		if i == h {
			continue
		}
		c.add(c.relation(ph, h, i), ph.heads[h], ph.heads[i])
	}
}

// coordination splits the children of ph into conjuncts when a conjunction
// appears between two of them. Commas and colons then act as separators too.
func (c *converter) coordination(ph *phrase) (groups [][]int, seps []int, ok bool) {
	inner := false
	for i := 1; i < len(ph.kids)-1; i++ {
		if isConjunction(Category(ph.kids[i].Label)) {
			inner = true
			break
		}
	}
	if !inner {
		return nil, nil, false
	}
	var cur []int
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if c.allPunct(ph, cur) {
			seps = append(seps, cur...)
		} else {
			groups = append(groups, cur)
		}
		cur = nil
	}
	for i, k := range ph.kids {
		cat := Category(k.Label)
		if isConjunction(cat) || cat == "," || cat == ":" {
			flush()
			seps = append(seps, i)
			continue
		}
		cur = append(cur, i)
	}
	flush()
	return groups, seps, len(groups) >= 2
}

func (c *converter) attachCoordination(ph *phrase, groups [][]int, seps []int) Word {
	var first Word
	for gi, g := range groups {
		h := c.headChild(ph, g)
		c.attach(ph, h, g)
		if gi == 0 {
			first = ph.heads[h]
			continue
		}
		c.add("conj", first, ph.heads[h])
	}
	for _, s := range seps {
		rel := "cc"
		if c.pack.punctTags[Category(ph.kids[s].Label)] {
			rel = "punct"
		}
		c.add(rel, first, ph.heads[s])
	}
	return first
}

func (c *converter) allPunct(ph *phrase, members []int) bool {
	for _, i := range members {
		if !c.pack.punctTags[Category(ph.kids[i].Label)] {
			return false
		}
	}
	return true
}

// headChild picks the head among members, preferring main verbs over
// auxiliaries and predicates over copulas.
func (c *converter) headChild(ph *phrase, members []int) int {
	h := c.ruleHead(ph.cat, ph.kids, members)
	switch ph.cat {
	case "VP", "SQ", "SINV":
		h = c.semanticHead(ph, h, members)
	}
	return h
}

func (c *converter) ruleHead(cat string, kids []*tree.Tree, members []int) int {
	cand := make([]int, 0, len(members))
	for _, i := range members {
		if !c.pack.punctTags[Category(kids[i].Label)] {
			cand = append(cand, i)
		}
	}
	if len(cand) == 0 {
		cand = members
	}
	rules, ok := c.pack.heads[cat]
	if !ok {
		return cand[0]
	}
	catOf := func(i int) string { return Category(kids[i].Label) }
	for _, r := range rules {
		switch r.dir {
		case leftByCat:
			if r.cats == nil {
				return cand[0]
			}
			for _, want := range r.cats {
				for _, i := range cand {
					if catOf(i) == want {
						return i
					}
				}
			}
		case rightByCat:
			if r.cats == nil {
				return cand[len(cand)-1]
			}
			for _, want := range r.cats {
				for j := len(cand) - 1; j >= 0; j-- {
					if catOf(cand[j]) == want {
						return cand[j]
					}
				}
			}
		case rightDis:
			for j := len(cand) - 1; j >= 0; j-- {
				if contains(r.cats, catOf(cand[j])) {
					return cand[j]
				}
			}
		}
	}
	if rules[0].dir == leftByCat {
		return cand[0]
	}
	return cand[len(cand)-1]
}

func (c *converter) semanticHead(ph *phrase, h int, members []int) int {
	k := ph.kids[h]
	if !k.IsPreTerminal() || !isVerbTag(k.Label) && k.Label != "TO" {
		return h
	}
	word := strings.ToLower(ph.heads[h].Text)
	if !c.pack.auxiliary[word] && k.Label != "MD" && k.Label != "TO" {
		return h
	}
	for _, i := range members {
		if i > h && Category(ph.kids[i].Label) == "VP" {
			return i
		}
	}
	if !c.pack.copulas[word] {
		return h
	}
	pred := -1
	for _, i := range members {
		if i <= h {
			continue
		}
		switch Category(ph.kids[i].Label) {
		case "ADJP", "NP":
			if ph.cat == "VP" {
				return i
			}
			pred = i
		}
	}
	if pred >= 0 {
		return pred
	}
	return h
}

func (c *converter) relation(ph *phrase, h, d int) string {
	kid := ph.kids[d]
	dcat := Category(kid.Label)
	dw, hw := ph.heads[d], ph.heads[h]
	lower := strings.ToLower(dw.Text)
	before := d < h

	switch {
	case c.pack.punctTags[dcat]:
		return "punct"
	case isConjunction(dcat):
		return "cc"
	case dcat == "NP" && IsTemporal(kid.Label):
		return "tmod"
	case dcat == "PRP$" || dcat == "WP$":
		return "poss"
	case dcat == "POS":
		return "possessive"
	case dcat == "NP" && endsWithPossessive(kid):
		return "poss"
	case dcat == "DT" || dcat == "WDT":
		return "det"
	case dcat == "PDT":
		return "predet"
	case dcat == "MD":
		return "aux"
	case dcat == "TO" && (ph.cat == "VP" || ph.cat == "S"):
		return "aux"
	case isAdverbial(dcat) && c.pack.negations[lower]:
		return "neg"
	case isAdverbial(dcat):
		return "advmod"
	case dcat == "RP" || dcat == "PRT":
		return "prt"
	case dcat == "PP" || dcat == "WHPP":
		return "prep"
	case dcat == "EX":
		return "expl"
	}

	switch ph.cat {
	case "PP", "WHPP":
		if isNominal(dcat) {
			return "pobj"
		}
		return "pcomp"
	case "SBAR":
		if dcat == "IN" || dcat == "TO" {
			if c.pack.complement[lower] {
				return "complm"
			}
			return "mark"
		}
	case "NP", "NX", "NAC", "WHNP":
		switch {
		case dcat == "CD" || dcat == "QP":
			return "num"
		case isAdjectival(dcat):
			return "amod"
		case isNominal(dcat) && before:
			return "nn"
		case dcat == "NP":
			return "appos"
		case dcat == "SBAR":
			return "rcmod"
		case dcat == "VP":
			return "partmod"
		case dcat == "S":
			return "infmod"
		}
	case "S", "SQ", "SINV", "SBARQ":
		switch {
		case isNominal(dcat) || dcat == "WHNP":
			if before || ph.cat == "SQ" || ph.cat == "SINV" {
				if c.hasRel(hw, "auxpass") {
					return "nsubjpass"
				}
				return "nsubj"
			}
		case isVerbTag(dcat):
			return c.auxRelation(dw, hw)
		case (dcat == "S" || dcat == "SBAR") && before:
			return "advcl"
		case dcat == "SBAR":
			return c.clauseRelation(kid)
		case dcat == "S":
			return "ccomp"
		}
	case "VP":
		switch {
		case isNominal(dcat):
			if before {
				return "dep"
			}
			if laterNominal(ph, d) {
				return "iobj"
			}
			return "dobj"
		case isVerbTag(dcat):
			return c.auxRelation(dw, hw)
		case dcat == "ADJP" || isAdjectival(dcat):
			return "acomp"
		case dcat == "S":
			if hasSubject(kid) {
				return "ccomp"
			}
			return "xcomp"
		case dcat == "SBAR":
			return c.clauseRelation(kid)
		case dcat == "IN":
			return "prep"
		}
	case "ADJP", "ADVP", "WHADJP":
		switch {
		case isNominal(dcat):
			return "npadvmod"
		case dcat == "S":
			return "xcomp"
		case dcat == "SBAR":
			return "ccomp"
		case dcat == "IN":
			return "prep"
		}
	case "QP":
		if dcat == "CD" {
			return "number"
		}
		return "quantmod"
	}
	return "dep"
}

func (c *converter) auxRelation(dw, hw Word) string {
	word := strings.ToLower(dw.Text)
	switch {
	case c.pack.copulas[word] && !isVerbTag(hw.Tag):
		return "cop"
	case c.pack.copulas[word] && hw.Tag == "VBN":
		return "auxpass"
	case c.pack.auxiliary[word] || dw.Tag == "MD":
		return "aux"
	}
	return "dep"
}

// clauseRelation labels an SBAR by its introducing word.
func (c *converter) clauseRelation(sbar *tree.Tree) string {
	if len(sbar.Children) == 0 {
		return "ccomp"
	}
	first := sbar.Children[0]
	if !first.IsPreTerminal() || Category(first.Label) != "IN" {
		return "ccomp"
	}
	if c.pack.complement[strings.ToLower(first.Children[0].Label)] {
		return "ccomp"
	}
	return "advcl"
}

func laterNominal(ph *phrase, d int) bool {
	for i := d + 1; i < len(ph.kids); i++ {
		if isNominal(Category(ph.kids[i].Label)) && !IsTemporal(ph.kids[i].Label) {
			return true
		}
	}
	return false
}

func hasSubject(s *tree.Tree) bool {
	for _, k := range s.Children {
		cat := Category(k.Label)
		if cat == "VP" {
			return false
		}
		if cat == "NP" && !IsTemporal(k.Label) {
			return true
		}
	}
	return false
}

func endsWithPossessive(np *tree.Tree) bool {
	n := len(np.Children)
	return n > 0 && Category(np.Children[n-1].Label) == "POS"
}

func isConjunction(cat string) bool { return cat == "CC" || cat == "CONJP" }

func isVerbTag(tag string) bool {
	return strings.HasPrefix(tag, "VB") || tag == "MD" || tag == "AUX"
}

func isNominal(cat string) bool {
	switch cat {
	case "NP", "NN", "NNS", "NNP", "NNPS", "PRP", "NX", "NAC", "WP":
		return true
	}
	return false
}

func isAdjectival(cat string) bool {
	switch cat {
	case "JJ", "JJR", "JJS", "ADJP", "VBN", "VBG":
		return true
	}
	return false
}

func isAdverbial(cat string) bool {
	switch cat {
	case "RB", "RBR", "RBS", "ADVP", "WHADVP", "WRB":
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
