package sentence

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
		words  int
	}{
		{"period", []string{"My", "1st", "sentence", "."}, "My 1st sentence ", 3},
		{"opening quote artifact", []string{"``", "Does", "it", "work", "for", "questions", "?", "''"}, "Does it work for questions  ", 5},
		{"clitics", []string{"I", "do", "n't", "know"}, "I do nt know", 4},
		{"ellipsis only", []string{"..."}, "", 0},
		{"curly punctuation", []string{"“", "hi", "”", "—", "ok"}, " hi   ok", 2},
		{"symbols survive", []string{"$", "5", "+", "tax"}, "$ 5 + tax", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.tokens)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if n := WordCount(got); n != tt.words {
				t.Errorf("expected %d words, got %d", tt.words, n)
			}
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"My 1st sentence .",
		"`` Does it work for questions ? ''",
		"```` nested",
		"`` `` twice",
		"plain text",
		"",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.Contains(once, "`` ") {
			t.Errorf("artifact left in %q", once)
		}
	}
}

func TestFilter_Bounds(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("w ", n))
	}
	sents := []Sentence{
		{Index: 0, Text: ""},
		{Index: 1, Text: words(1)},
		{Index: 2, Text: words(30)},
		{Index: 3, Text: words(31)},
		{Index: 4, Text: "   "},
		{Index: 5, Text: words(35)},
	}
	kept, dropped := Filter(sents, DefaultMaxWords)

	var keptIdx, droppedIdx []int
	for _, s := range kept {
		keptIdx = append(keptIdx, s.Index)
	}
	for _, s := range dropped {
		droppedIdx = append(droppedIdx, s.Index)
	}
	if diff := cmp.Diff([]int{1, 2}, keptIdx); diff != "" {
		t.Errorf("kept mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 3, 4, 5}, droppedIdx); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}
	for _, s := range kept {
		if n := WordCount(s.Text); n < 1 || n > DefaultMaxWords {
			t.Errorf("kept sentence %d has %d words", s.Index, n)
		}
	}
}

func TestFilter_NoTruncation(t *testing.T) {
	long := Sentence{Text: strings.Repeat("word ", 31)}
	kept, dropped := Filter([]Sentence{long}, DefaultMaxWords)
	if len(kept) != 0 {
		t.Errorf("expected nothing kept, got %d", len(kept))
	}
	if len(dropped) != 1 || dropped[0].Text != long.Text {
		t.Errorf("expected the sentence dropped unchanged, got %v", dropped)
	}
}

func TestPrepare(t *testing.T) {
	got := Prepare([][]string{
		{"My", "1st", "sentence", "."},
		{"..."},
	})
	want := []Sentence{
		{Index: 0, Text: "My 1st sentence "},
		{Index: 1, Text: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prepare mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"My", "1st", "sentence"}, got[0].Words()); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}
