package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/segment"
	"github.com/dgallion1/sentparse/internal/sentence"
	"golang.org/x/sync/errgroup"
)

// drainTimeout bounds how long a worker waits, after a sentence's timeout,
// for a parse that ignores its context to return.
const drainTimeout = 5 * time.Second

// Options tune a Runner. Zero values select the defaults.
type Options struct {
	Segmenter segment.Segmenter
	MaxWords  int
	Workers   int
	// Timeout bounds each sentence. On expiry the sentence fails with
	// context.DeadlineExceeded, but its worker slot stays taken until the
	// model returns or drainTimeout passes, so Workers still caps concurrent
	// Parse calls for models that honor cancellation late. A call abandoned
	// after drainTimeout keeps running, and behind model.Serialize keeps the
	// lock until it returns.
	Timeout time.Duration
	Stats   *ParseStats
}

// Runner segments text, filters the sentences and parses the survivors in
// parallel with a shared model.
type Runner struct {
	model    model.Model
	factory  *grammar.StructureFactory
	seg      segment.Segmenter
	maxWords int
	workers  int
	timeout  time.Duration
	stats    *ParseStats
	log      *slog.Logger
}

func NewRunner(m model.Model, opts Options, log *slog.Logger) *Runner {
	if model.IsSerial(m) {
		m = model.Serialize(m)
	}
	if opts.Segmenter == nil {
		opts.Segmenter = segment.PTB{}
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = sentence.DefaultMaxWords
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Runner{
		model:    m,
		factory:  m.LanguagePack().StructureFactory(),
		seg:      opts.Segmenter,
		maxWords: opts.MaxWords,
		workers:  opts.Workers,
		timeout:  opts.Timeout,
		stats:    opts.Stats,
		log:      log,
	}
}

// Report is the outcome of one run.
type Report struct {
	// Segmented counts the sentences found before filtering.
	Segmented int
	// Dropped holds sentences outside the word limits; they were not parsed.
	Dropped []sentence.Sentence
	// Outcomes holds one entry per parsed sentence, in sentence order.
	Outcomes []Outcome
}

// Results returns the successful parses.
func (r *Report) Results() []*Result {
	out := make([]*Result, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o.Result)
		}
	}
	return out
}

// Parsed counts successful parses.
func (r *Report) Parsed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Run processes a single paragraph.
func (r *Runner) Run(ctx context.Context, paragraph string) *Report {
	return r.RunParagraphs(ctx, []string{paragraph})
}

// Observer is told about a run's progress. Parsed may be called from several
// goroutines at once.
type Observer interface {
	Filtered(kept, dropped int)
	Parsed(o Outcome)
}

// RunParagraphs segments each paragraph separately and parses all of their
// sentences as one batch. Sentence indexes run across paragraphs.
func (r *Runner) RunParagraphs(ctx context.Context, paragraphs []string) *Report {
	return r.RunObserved(ctx, paragraphs, nil)
}

// RunObserved is RunParagraphs reporting progress to obs, which may be nil.
func (r *Runner) RunObserved(ctx context.Context, paragraphs []string, obs Observer) *Report {
	var segmented [][]string
	for _, p := range paragraphs {
		segmented = append(segmented, r.seg.Segment(p)...)
	}
	sents := sentence.Prepare(segmented)
	kept, dropped := sentence.Filter(sents, r.maxWords)
	for _, s := range dropped {
		r.log.Debug("sentence dropped", "index", s.Index, "words", sentence.WordCount(s.Text), "max_words", r.maxWords)
	}
	r.log.Info("segmented input", "sentences", len(sents), "kept", len(kept), "dropped", len(dropped))
	if obs != nil {
		obs.Filtered(len(kept), len(dropped))
	}

	return &Report{
		Segmented: len(sents),
		Dropped:   dropped,
		Outcomes:  r.parseAll(ctx, kept, obs),
	}
}

// ParseAll parses every sentence on a bounded pool. Each task writes only its
// own slot, so the outcomes line up with sents. A failing or panicking task
// does not affect the others.
func (r *Runner) ParseAll(ctx context.Context, sents []sentence.Sentence) []Outcome {
	return r.parseAll(ctx, sents, nil)
}

func (r *Runner) parseAll(ctx context.Context, sents []sentence.Sentence, obs Observer) []Outcome {
	out := make([]Outcome, len(sents))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, s := range sents {
		g.Go(func() error {
			out[i] = r.parseOne(ctx, s)
			if obs != nil {
				obs.Parsed(out[i])
			}
			return nil
		})
	}
	g.Wait()
	return out
}

type parsed struct {
	res *Result
	err error
}

func (r *Runner) parseOne(ctx context.Context, s sentence.Sentence) Outcome {
	log := r.log.With("index", s.Index)
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan parsed, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- parsed{err: fmt.Errorf("parser panic: %v", p)}
			}
		}()
		res, err := r.build(ctx, s)
		done <- parsed{res: res, err: err}
	}()

	var p parsed
	returned := true
	select {
	case p = <-done:
	case <-ctx.Done():
		p.err = ctx.Err()
		returned = false
	}
	o := r.outcome(log, s, p, time.Since(start))
	if !returned {
		// Hold the worker slot until the parse actually returns.
		select {
		case <-done:
		case <-time.After(drainTimeout):
			log.Error("parse abandoned", "timeout", r.timeout, "drain", drainTimeout)
		}
	}
	if r.stats != nil {
		r.stats.Record(o)
	}
	return o
}

func (r *Runner) outcome(log *slog.Logger, s sentence.Sentence, p parsed, d time.Duration) Outcome {
	o := Outcome{Index: s.Index, Sentence: s, Duration: d}
	if p.err != nil {
		o.Err = fmt.Errorf("sentence %d: %w", s.Index, p.err)
		if errors.Is(p.err, context.DeadlineExceeded) {
			log.Warn("parse timed out", "timeout", r.timeout)
		} else {
			log.Warn("parse failed", "error", p.err)
		}
		return o
	}
	o.Result = p.res
	log.Debug("parsed sentence", "words", len(p.res.TaggedWords), "duration_ms", d.Milliseconds())
	return o
}

// build runs the three steps for one sentence: parse, tagged yield, typed
// dependencies.
func (r *Runner) build(ctx context.Context, s sentence.Sentence) (*Result, error) {
	t, err := r.model.Parse(ctx, s.Words())
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, model.ErrNoParse
	}
	tagged := t.TaggedYield()
	gs, err := r.factory.NewStructure(t)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	return &Result{
		Tree:         t,
		TaggedWords:  tagged,
		Dependencies: gs.TypedDependencies(true),
	}, nil
}
