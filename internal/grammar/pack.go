// Package grammar converts constituency trees into typed dependencies using
// English head rules, and applies CC-processing (collapsed prepositions and
// conjunctions with propagated governors).
package grammar

import (
	"strings"
)

type direction int

const (
	// leftByCat tries each category in turn, scanning children left to right.
	leftByCat direction = iota
	// rightByCat tries each category in turn, scanning right to left.
	rightByCat
	// rightDis scans right to left for the first child in any listed category.
	rightDis
)

type headRule struct {
	dir  direction
	cats []string
}

// Pack holds the language-specific conventions used to read parse trees.
type Pack struct {
	name       string
	heads      map[string][]headRule
	punctTags  map[string]bool
	copulas    map[string]bool
	auxiliary  map[string]bool
	negations  map[string]bool
	complement map[string]bool
}

// English returns the English treebank language pack.
func English() *Pack {
	return &Pack{
		name:  "english",
		heads: englishHeadRules,
		punctTags: set(".", ",", ":", "``", "''", "-LRB-", "-RRB-", "#", "-NONE-"),
		copulas: set("be", "is", "are", "was", "were", "am", "been", "being",
			"'s", "'re", "'m"),
		auxiliary: set("be", "is", "are", "was", "were", "am", "been", "being",
			"'s", "'re", "'m", "have", "has", "had", "having", "'ve", "'d",
			"do", "does", "did", "will", "would", "shall", "should", "can",
			"could", "may", "might", "must", "'ll", "to", "get", "got", "gets"),
		negations:  set("not", "n't", "never"),
		complement: set("that", "whether", "if"),
	}
}

func (p *Pack) Name() string { return p.name }

// StructureFactory returns the factory deriving grammatical structures from
// trees under this pack.
func (p *Pack) StructureFactory() *StructureFactory {
	return &StructureFactory{pack: p}
}

// IsPunctuationTag reports whether tag marks a punctuation token.
func (p *Pack) IsPunctuationTag(tag string) bool {
	return p.punctTags[tag]
}

// Category strips function tags and indices: NP-SBJ-1 becomes NP. Labels that
// begin with '-' (such as -LRB-) are returned as is.
func Category(label string) string {
	if strings.HasPrefix(label, "-") {
		return label
	}
	if i := strings.IndexAny(label, "-=|"); i > 0 {
		return label[:i]
	}
	return label
}

// IsTemporal reports whether label carries the TMP function tag.
func IsTemporal(label string) bool {
	for _, part := range strings.Split(label, "-")[1:] {
		if part == "TMP" {
			return true
		}
	}
	return false
}

var englishHeadRules = map[string][]headRule{
	"ROOT":   {{leftByCat, nil}},
	"S":      {{leftByCat, cats("TO VP S FRAG SBAR ADJP UCP NP")}},
	"SINV":   {{leftByCat, cats("VBZ VBD VBP VB MD VP S SINV ADJP NP")}},
	"SQ":     {{leftByCat, cats("VP SQ ADJP VB VBZ VBD VBP MD")}},
	"SBAR":   {{leftByCat, cats("S SQ SINV SBAR FRAG WHNP WHPP WHADVP WHADJP IN DT")}},
	"SBARQ":  {{leftByCat, cats("SQ S SINV SBARQ FRAG")}},
	"VP":     {{leftByCat, cats("TO VBD VBN MD VBZ VB VBG VBP VP ADJP NN NNS NP")}},
	"PP":     {{leftByCat, cats("IN TO VBG VBN RP FW")}},
	"WHPP":   {{leftByCat, cats("IN TO FW")}},
	"ADJP":   {{leftByCat, cats("NNS QP NN $ ADVP JJ VBN VBG ADJP JJR NP JJS DT FW RBR RBS SBAR RB")}},
	"WHADJP": {{leftByCat, cats("CC WRB JJ ADJP")}},
	"ADVP":   {{rightByCat, cats("RB RBR RBS FW ADVP TO CD JJR JJ IN NP JJS NN")}},
	"WHADVP": {{rightByCat, cats("CC WRB")}},
	"QP":     {{leftByCat, cats("$ IN NNS NN JJ RB DT CD NCD QP JJR JJS")}},
	"PRT":    {{rightByCat, cats("RP")}},
	"CONJP":  {{rightByCat, cats("CC RB IN")}},
	"LST":    {{rightByCat, cats("LS :")}},
	"NAC":    {{leftByCat, cats("NN NNS NNP NNPS NP NAC EX $ CD QP PRP VBG JJ JJS JJR ADJP FW")}},
	"WHNP":   {{leftByCat, cats("WDT WP WP$ WHADJP WHPP WHNP NN NNS NNP")}},
	"PRN":    {{leftByCat, nil}},
	"INTJ":   {{leftByCat, nil}},
	"FRAG":   {{rightByCat, nil}},
	"UCP":    {{rightByCat, nil}},
	"X":      {{rightByCat, nil}},
	"NP": {
		{rightDis, cats("NN NNP NNPS NNS NX JJR")},
		{leftByCat, cats("NP PRP")},
		{rightDis, cats("$ ADJP PRN")},
		{rightByCat, cats("CD")},
		{rightDis, cats("JJ JJS RB QP")},
		{rightByCat, nil},
	},
	"NX": {
		{rightDis, cats("NN NNP NNPS NNS NX JJR")},
		{leftByCat, cats("NP PRP")},
		{rightByCat, nil},
	},
}

func cats(s string) []string { return strings.Fields(s) }

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
