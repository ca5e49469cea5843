package pipeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/sentparse/internal/model"
)

type outcomeKind uint8

const (
	kindParsed outcomeKind = iota
	kindNoParse
	kindTimedOut
	kindFailed
)

func classify(o Outcome) outcomeKind {
	switch {
	case o.OK():
		return kindParsed
	case errors.Is(o.Err, context.DeadlineExceeded):
		return kindTimedOut
	case errors.Is(o.Err, model.ErrNoParse), errors.Is(o.Err, model.ErrSentenceTooLong):
		return kindNoParse
	default:
		return kindFailed
	}
}

type sample struct {
	at         time.Time
	kind       outcomeKind
	words      int
	durationMs int64
}

// StatsSnapshot aggregates the sentence outcomes seen within the window.
// Latencies and word counts cover successful parses only; Failed includes
// NoParse and TimedOut.
type StatsSnapshot struct {
	Count     int     `json:"count"`
	Failed    int     `json:"failed"`
	NoParse   int     `json:"no_parse"`
	TimedOut  int     `json:"timed_out"`
	Words     int     `json:"words"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	MsPerWord float64 `json:"ms_per_word"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

// ParseStats keeps per-sentence outcomes for a rolling window.
type ParseStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
}

func NewParseStats(window time.Duration) *ParseStats {
	if window <= 0 {
		window = time.Hour
	}
	return &ParseStats{
		samples: make([]sample, 0, 256),
		window:  window,
	}
}

// Record adds the outcome of one sentence.
func (s *ParseStats) Record(o Outcome) {
	sm := sample{
		at:         time.Now(),
		kind:       classify(o),
		words:      len(o.Sentence.Words()),
		durationMs: max(o.Duration.Milliseconds(), 0),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(sm.at)
	s.samples = append(s.samples, sm)
}

func (s *ParseStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())

	var snap StatsSnapshot
	var latencies []int64
	var sum int64
	for _, sm := range s.samples {
		switch sm.kind {
		case kindParsed:
			latencies = append(latencies, sm.durationMs)
			sum += sm.durationMs
			snap.Words += sm.words
			continue
		case kindNoParse:
			snap.NoParse++
		case kindTimedOut:
			snap.TimedOut++
		}
		snap.Failed++
	}
	if len(latencies) == 0 {
		return snap
	}
	slices.Sort(latencies)

	snap.Count = len(latencies)
	snap.MinMs = latencies[0]
	snap.MaxMs = latencies[len(latencies)-1]
	snap.AvgMs = float64(sum) / float64(len(latencies))
	if snap.Words > 0 {
		snap.MsPerWord = float64(sum) / float64(snap.Words)
	}
	snap.P50Ms = percentile(latencies, 50)
	snap.P95Ms = percentile(latencies, 95)
	snap.P99Ms = percentile(latencies, 99)
	return snap
}

func (s *ParseStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[n-1])
	}
	rank := float64(n-1) * pct / 100
	lower := int(rank)
	if lower+1 >= n {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
