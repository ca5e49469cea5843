package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/input"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/model/treebank"
	"github.com/dgallion1/sentparse/internal/sentence"
	"github.com/dgallion1/sentparse/internal/tree"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// flatModel tags every word NN under a single NP and counts its calls.
type flatModel struct {
	calls  atomic.Int32
	fail   map[string]error
	panics map[string]bool
	block  map[string]bool
	serial bool
}

func (m *flatModel) Parse(ctx context.Context, words []string) (*tree.Tree, error) {
	m.calls.Add(1)
	key := strings.Join(words, " ")
	if err, ok := m.fail[key]; ok {
		return nil, err
	}
	if m.panics[key] {
		panic("boom")
	}
	if m.block[key] {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil, ctx.Err()
	}
	np := tree.New("NP")
	for _, w := range words {
		np.Children = append(np.Children, tree.Pre("NN", w))
	}
	return tree.New("ROOT", np), nil
}

func (m *flatModel) LanguagePack() *grammar.Pack { return grammar.English() }
func (m *flatModel) Close() error                { return nil }
func (m *flatModel) Serial() bool                { return m.serial }

func builtinModel(t *testing.T) model.Model {
	t.Helper()
	opts, err := model.ParseFlags(model.DefaultFlags)
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	m, err := treebank.Load(treebank.Builtin, opts)
	if err != nil {
		t.Fatalf("load treebank: %v", err)
	}
	return m
}

func TestRun_DemoParagraph(t *testing.T) {
	r := NewRunner(builtinModel(t), Options{Workers: 4}, testLog)
	report := r.Run(context.Background(), input.DemoParagraph)

	if report.Segmented != 3 {
		t.Errorf("expected 3 segmented sentences, got %d", report.Segmented)
	}
	if len(report.Dropped) != 0 {
		t.Errorf("expected nothing dropped, got %v", report.Dropped)
	}
	if len(report.Failed()) != 0 {
		t.Fatalf("expected no failures, got %v", report.Failed())
	}
	results := report.Results()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	q := results[1]
	wantTags := "[Does/VBZ, it/PRP, work/VB, for/IN, questions/NNS]"
	if got := TaggedString(q.TaggedWords); got != wantTags {
		t.Errorf("expected tags %s, got %s", wantTags, got)
	}
	wantDeps := "[aux(work-3, Does-1), nsubj(work-3, it-2), root(ROOT-0, work-3), prep_for(work-3, questions-5)]"
	if got := DependencyString(q.Dependencies); got != wantDeps {
		t.Errorf("expected deps %s, got %s", wantDeps, got)
	}
	for _, res := range results {
		if len(res.TaggedWords) != len(res.Tree.TaggedYield()) {
			t.Errorf("tagged words %d != tree yield %d", len(res.TaggedWords), len(res.Tree.TaggedYield()))
		}
	}
}

func TestRun_CoordinationFixture(t *testing.T) {
	r := NewRunner(builtinModel(t), Options{}, testLog)
	report := r.Run(context.Background(), "Sue ate apples and bananas. Bill and Dave left.")
	results := report.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d (failed: %v)", len(results), report.Failed())
	}
	deps := DependencyString(results[0].Dependencies)
	for _, want := range []string{"dobj(ate-2, apples-3)", "dobj(ate-2, bananas-5)", "conj_and(apples-3, bananas-5)"} {
		if !strings.Contains(deps, want) {
			t.Errorf("expected %s in %s", want, deps)
		}
	}
	deps = DependencyString(results[1].Dependencies)
	if !strings.Contains(deps, "nsubj(left-4, Dave-3)") {
		t.Errorf("expected propagated subject in %s", deps)
	}
}

func TestRun_LongSentenceNeverParsed(t *testing.T) {
	m := &flatModel{}
	r := NewRunner(m, Options{}, testLog)
	long := strings.TrimSpace(strings.Repeat("word ", 35)) + "."
	report := r.Run(context.Background(), long)

	if n := len(report.Results()); n != 0 {
		t.Errorf("expected no results, got %d", n)
	}
	if len(report.Dropped) != 1 {
		t.Errorf("expected 1 dropped sentence, got %d", len(report.Dropped))
	}
	if got := m.calls.Load(); got != 0 {
		t.Errorf("expected model never invoked, got %d calls", got)
	}
}

func TestRun_PunctuationOnlySentence(t *testing.T) {
	m := &flatModel{}
	r := NewRunner(m, Options{}, testLog)
	report := r.Run(context.Background(), "...")

	if report.Segmented != 1 || len(report.Dropped) != 1 {
		t.Errorf("expected the sentence segmented and dropped, got %+v", report)
	}
	if m.calls.Load() != 0 {
		t.Error("expected model never invoked")
	}
}

func TestParseAll_Cardinality(t *testing.T) {
	m := &flatModel{}
	r := NewRunner(m, Options{Workers: 3}, testLog)
	var sents []sentence.Sentence
	for i := range 20 {
		sents = append(sents, sentence.Sentence{Index: i, Text: strings.Repeat("w ", i+1)})
	}
	out := r.ParseAll(context.Background(), sents)
	if len(out) != len(sents) {
		t.Fatalf("expected %d outcomes, got %d", len(sents), len(out))
	}
	for i, o := range out {
		if !o.OK() {
			t.Errorf("outcome %d failed: %v", i, o.Err)
			continue
		}
		if o.Index != sents[i].Index {
			t.Errorf("expected index %d in slot %d, got %d", sents[i].Index, i, o.Index)
		}
		if len(o.Result.TaggedWords) != i+1 {
			t.Errorf("expected %d tagged words, got %d", i+1, len(o.Result.TaggedWords))
		}
	}
	if got := m.calls.Load(); got != 20 {
		t.Errorf("expected 20 model calls, got %d", got)
	}
}

func TestParseAll_IsolatesFailures(t *testing.T) {
	m := &flatModel{
		fail:   map[string]error{"bad one": model.ErrNoParse},
		panics: map[string]bool{"panic here": true},
	}
	r := NewRunner(m, Options{Workers: 2}, testLog)
	sents := []sentence.Sentence{
		{Index: 0, Text: "good one"},
		{Index: 1, Text: "bad one"},
		{Index: 2, Text: "panic here"},
		{Index: 3, Text: "good two"},
	}
	out := r.ParseAll(context.Background(), sents)

	if !out[0].OK() || !out[3].OK() {
		t.Errorf("expected healthy sentences to parse, got %v and %v", out[0].Err, out[3].Err)
	}
	if !errors.Is(out[1].Err, model.ErrNoParse) {
		t.Errorf("expected ErrNoParse, got %v", out[1].Err)
	}
	if out[2].Err == nil || !strings.Contains(out[2].Err.Error(), "panic") {
		t.Errorf("expected panic captured as error, got %v", out[2].Err)
	}
	if out[1].Result != nil || out[2].Result != nil {
		t.Error("expected failed outcomes to carry no result")
	}
}

func TestParseAll_Timeout(t *testing.T) {
	m := &flatModel{block: map[string]bool{"slow": true}}
	r := NewRunner(m, Options{Timeout: 20 * time.Millisecond}, testLog)
	out := r.ParseAll(context.Background(), []sentence.Sentence{
		{Index: 0, Text: "slow"},
		{Index: 1, Text: "fast"},
	})
	if !errors.Is(out[0].Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", out[0].Err)
	}
	if !out[1].OK() {
		t.Errorf("expected other sentence to parse, got %v", out[1].Err)
	}
}

func TestParseAll_TwoRunsEqualAsSets(t *testing.T) {
	r := NewRunner(builtinModel(t), Options{Workers: 8}, testLog)
	text := input.DemoParagraph + " Sue ate apples and bananas. The cake was eaten. We left yesterday."

	render := func(rep *Report) []string {
		var out []string
		for _, res := range rep.Results() {
			out = append(out, res.String())
		}
		return out
	}
	first := render(r.Run(context.Background(), text))
	second := render(r.Run(context.Background(), text))
	if len(first) != 6 {
		t.Fatalf("expected 6 results, got %d", len(first))
	}
	less := func(a, b string) bool { return a < b }
	if diff := cmp.Diff(first, second, cmpopts.SortSlices(less)); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestRunParagraphs_IndexesSpanParagraphs(t *testing.T) {
	r := NewRunner(&flatModel{}, Options{}, testLog)
	report := r.RunParagraphs(context.Background(), []string{"One here. Two here", "Three here."})
	var got []int
	for _, o := range report.Outcomes {
		got = append(got, o.Index)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
		t.Errorf("indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_SerializesNonReentrantModel(t *testing.T) {
	m := &flatModel{serial: true}
	r := NewRunner(m, Options{Workers: 4}, testLog)
	if r.model == model.Model(m) {
		t.Error("expected serial model to be wrapped")
	}
	report := r.Run(context.Background(), "One here. Two here. Three here.")
	if report.Parsed() != 3 {
		t.Errorf("expected 3 parsed, got %d", report.Parsed())
	}
}

func TestRunner_RecordsStats(t *testing.T) {
	stats := NewParseStats(time.Hour)
	r := NewRunner(&flatModel{fail: map[string]error{"Bad": model.ErrNoParse}}, Options{Stats: stats}, testLog)
	r.Run(context.Background(), "Good. Bad. Fine.")
	snap := stats.Snapshot()
	if snap.Count != 2 {
		t.Errorf("expected 2 parses, got %d", snap.Count)
	}
	if snap.Failed != 1 || snap.NoParse != 1 {
		t.Errorf("expected 1 no-parse failure, got failed=%d no_parse=%d", snap.Failed, snap.NoParse)
	}
	if snap.Words != 2 {
		t.Errorf("expected 2 parsed words, got %d", snap.Words)
	}
}

// stubbornModel ignores cancellation and tracks how many calls overlap.
type stubbornModel struct {
	delay  time.Duration
	active atomic.Int32
	peak   atomic.Int32
}

func (m *stubbornModel) Parse(ctx context.Context, words []string) (*tree.Tree, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(m.delay)
	return tree.New("ROOT", tree.New("NP", tree.Pre("NN", words[0]))), nil
}

func (m *stubbornModel) LanguagePack() *grammar.Pack { return grammar.English() }
func (m *stubbornModel) Close() error                { return nil }

func TestParseAll_TimeoutKeepsWorkerLimit(t *testing.T) {
	m := &stubbornModel{delay: 40 * time.Millisecond}
	stats := NewParseStats(time.Hour)
	r := NewRunner(m, Options{Workers: 1, Timeout: 5 * time.Millisecond, Stats: stats}, testLog)
	sents := []sentence.Sentence{{Index: 0, Text: "a"}, {Index: 1, Text: "b"}, {Index: 2, Text: "c"}}

	out := r.ParseAll(context.Background(), sents)
	for i, o := range out {
		if !errors.Is(o.Err, context.DeadlineExceeded) {
			t.Errorf("outcome %d: expected deadline exceeded, got %v", i, o.Err)
		}
	}
	if got := m.peak.Load(); got != 1 {
		t.Errorf("expected at most 1 concurrent parse, got %d", got)
	}
	if got := m.active.Load(); got != 0 {
		t.Errorf("expected no parse left running, got %d", got)
	}
	if snap := stats.Snapshot(); snap.TimedOut != 3 {
		t.Errorf("expected 3 timeouts recorded, got %d", snap.TimedOut)
	}
}

func TestRun_PennTreebankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wsj.mrg")
	data := "( (S (NP-SBJ (PRP He)) (VP (VBD left)) (. .)) )\n" +
		"( (SBARQ (WHNP-1 (WP What)) (SQ (VBD did) (NP-SBJ (PRP she)) (VP (VB see) (NP (-NONE- *T*-1)))) (. ?)) )\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := treebank.Load(path, model.Options{})
	if err != nil {
		t.Fatalf("load treebank: %v", err)
	}
	report := NewRunner(m, Options{}, testLog).Run(context.Background(), "He left. What did she see?")
	if report.Parsed() != 2 {
		t.Fatalf("expected 2 parsed, got %d (failed: %v)", report.Parsed(), report.Failed())
	}
	want := "[He/PRP, left/VBD]"
	if got := TaggedString(report.Results()[0].TaggedWords); got != want {
		t.Errorf("expected tags %s, got %s", want, got)
	}
}

func TestResult_String(t *testing.T) {
	r := NewRunner(builtinModel(t), Options{}, testLog)
	res := r.Run(context.Background(), "My 1st sentence.").Results()[0]
	want := "Penn Parse :\n(ROOT\n  (NP (PRP$ My) (JJ 1st) (NN sentence)))\n" +
		"Word And Tags :\n[My/PRP$, 1st/JJ, sentence/NN]\n" +
		"Typed Dependencies :\n[poss(sentence-3, My-1), amod(sentence-3, 1st-2), root(ROOT-0, sentence-3)]\n"
	if diff := cmp.Diff(want, res.String()); diff != "" {
		t.Errorf("rendering mismatch (-want +got):\n%s", diff)
	}
}

func TestResult_FormatSelectsSections(t *testing.T) {
	r := NewRunner(builtinModel(t), Options{}, testLog)
	res := r.Run(context.Background(), "My 1st sentence.").Results()[0]

	got := res.Format(model.Options{OutputFormats: []string{model.FormatTypedDependencies, model.FormatWordsAndTags}})
	want := "Word And Tags :\n[My/PRP$, 1st/JJ, sentence/NN]\n" +
		"Typed Dependencies :\n[poss(sentence-3, My-1), amod(sentence-3, 1st-2), root(ROOT-0, sentence-3)]\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendering mismatch (-want +got):\n%s", diff)
	}
	if full := res.Format(model.Options{}); full != res.String() {
		t.Errorf("expected empty format list to render everything, got %q", full)
	}
}
