package grammar

import (
	"testing"

	"github.com/dgallion1/sentparse/internal/tree"
	"github.com/google/go-cmp/cmp"
)

func depStrings(deps []TypedDependency) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.String()
	}
	return out
}

func structureFor(t *testing.T, bracketed string) *Structure {
	t.Helper()
	tr, err := tree.Parse(bracketed)
	if err != nil {
		t.Fatalf("parse tree: %v", err)
	}
	s, err := English().StructureFactory().NewStructure(tr)
	if err != nil {
		t.Fatalf("new structure: %v", err)
	}
	return s
}

func TestTypedDependencies(t *testing.T) {
	tests := []struct {
		name  string
		tree  string
		basic []string
		cc    []string
	}{
		{
			name:  "object coordination",
			tree:  "(ROOT (S (NP (NNP Sue)) (VP (VBD ate) (NP (NNS apples) (CC and) (NNS bananas)))))",
			basic: []string{"nsubj(ate-2, Sue-1)", "root(ROOT-0, ate-2)", "dobj(ate-2, apples-3)", "cc(apples-3, and-4)", "conj(apples-3, bananas-5)"},
			cc:    []string{"nsubj(ate-2, Sue-1)", "root(ROOT-0, ate-2)", "dobj(ate-2, apples-3)", "dobj(ate-2, bananas-5)", "conj_and(apples-3, bananas-5)"},
		},
		{
			name:  "subject coordination",
			tree:  "(ROOT (S (NP (NNP Bill) (CC and) (NNP Dave)) (VP (VBD left))))",
			basic: []string{"nsubj(left-4, Bill-1)", "cc(Bill-1, and-2)", "conj(Bill-1, Dave-3)", "root(ROOT-0, left-4)"},
			cc:    []string{"nsubj(left-4, Bill-1)", "conj_and(Bill-1, Dave-3)", "nsubj(left-4, Dave-3)", "root(ROOT-0, left-4)"},
		},
		{
			name: "verb coordination shares subject",
			tree: "(ROOT (S (NP (NNP Sue)) (VP (VP (VBD sang)) (CC and) (VP (VBD danced)))))",
			cc:   []string{"nsubj(sang-2, Sue-1)", "nsubj(danced-4, Sue-1)", "root(ROOT-0, sang-2)", "conj_and(sang-2, danced-4)"},
		},
		{
			name:  "question with preposition",
			tree:  "(ROOT (SQ (VBZ Does) (NP (PRP it)) (VP (VB work) (PP (IN for) (NP (NNS questions))))))",
			basic: []string{"aux(work-3, Does-1)", "nsubj(work-3, it-2)", "root(ROOT-0, work-3)", "prep(work-3, for-4)", "pobj(for-4, questions-5)"},
			cc:    []string{"aux(work-3, Does-1)", "nsubj(work-3, it-2)", "root(ROOT-0, work-3)", "prep_for(work-3, questions-5)"},
		},
		{
			name: "noun phrase",
			tree: "(ROOT (NP (PRP$ My) (JJ 1st) (NN sentence)))",
			cc:   []string{"poss(sentence-3, My-1)", "amod(sentence-3, 1st-2)", "root(ROOT-0, sentence-3)"},
		},
		{
			name: "copula",
			tree: "(ROOT (S (NP (PRP He)) (VP (VBZ is) (ADJP (JJ happy)))))",
			cc:   []string{"nsubj(happy-3, He-1)", "cop(happy-3, is-2)", "root(ROOT-0, happy-3)"},
		},
		{
			name: "passive",
			tree: "(ROOT (S (NP (DT The) (NN cake)) (VP (VBD was) (VP (VBN eaten)))))",
			cc:   []string{"det(cake-2, The-1)", "nsubjpass(eaten-4, cake-2)", "auxpass(eaten-4, was-3)", "root(ROOT-0, eaten-4)"},
		},
		{
			name: "temporal noun phrase",
			tree: "(ROOT (S (NP-SBJ (PRP We)) (VP (VBD left) (NP-TMP (NN yesterday)))))",
			cc:   []string{"nsubj(left-2, We-1)", "root(ROOT-0, left-2)", "tmod(left-2, yesterday-3)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := structureFor(t, tt.tree)
			if tt.basic != nil {
				if diff := cmp.Diff(tt.basic, depStrings(s.TypedDependencies(false))); diff != "" {
					t.Errorf("basic dependencies mismatch (-want +got):\n%s", diff)
				}
			}
			if diff := cmp.Diff(tt.cc, depStrings(s.TypedDependencies(true))); diff != "" {
				t.Errorf("cc-processed dependencies mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypedDependencies_ReturnsFreshSlices(t *testing.T) {
	s := structureFor(t, "(ROOT (S (NP (NNP Bill)) (VP (VBD left))))")
	first := s.TypedDependencies(false)
	first[0].Relation = "changed"
	if s.TypedDependencies(false)[0].Relation == "changed" {
		t.Error("expected structure to be unaffected by caller mutation")
	}
}

func TestStructure_Words(t *testing.T) {
	s := structureFor(t, "(ROOT (S (NP (NNP Bill)) (VP (VBD left))))")
	want := []Word{{Text: "Bill", Tag: "NNP", Index: 1}, {Text: "left", Tag: "VBD", Index: 2}}
	if diff := cmp.Diff(want, s.Words()); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStructure_RejectsUntaggedWords(t *testing.T) {
	bad := tree.New("ROOT", tree.New("NP", tree.Leaf("word"), tree.Pre("NN", "x")))
	if _, err := English().StructureFactory().NewStructure(bad); err == nil {
		t.Error("expected error for word without tag")
	}
	if _, err := English().StructureFactory().NewStructure(nil); err == nil {
		t.Error("expected error for nil tree")
	}
}

func TestCategory(t *testing.T) {
	cases := map[string]string{
		"NP":       "NP",
		"NP-SBJ-1": "NP",
		"NP-TMP":   "NP",
		"PRP$":     "PRP$",
		"-LRB-":    "-LRB-",
		"NP=2":     "NP",
	}
	for in, want := range cases {
		if got := Category(in); got != want {
			t.Errorf("Category(%q): expected %q, got %q", in, want, got)
		}
	}
	if !IsTemporal("NP-TMP") || IsTemporal("NP-SBJ") {
		t.Error("expected only NP-TMP to be temporal")
	}
}
