package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/sentence"
	"github.com/google/go-cmp/cmp"
)

func parsedOutcome(words int, d time.Duration) Outcome {
	s := sentence.Sentence{Text: strings.TrimSpace(strings.Repeat("w ", words))}
	return Outcome{Sentence: s, Result: &Result{}, Duration: d}
}

func failedOutcome(err error) Outcome {
	return Outcome{Sentence: sentence.Sentence{Text: "a b"}, Err: fmt.Errorf("sentence 0: %w", err), Duration: time.Second}
}

func TestParseStats_LatencyOverParses(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for i := 1; i <= 5; i++ {
		stats.Record(parsedOutcome(i*2, time.Duration(i*100)*time.Millisecond))
	}
	stats.Record(failedOutcome(model.ErrNoParse))

	want := StatsSnapshot{
		Count:     5,
		Failed:    1,
		NoParse:   1,
		Words:     30,
		MinMs:     100,
		MaxMs:     500,
		AvgMs:     300,
		MsPerWord: 50,
		P50Ms:     300,
		P95Ms:     480,
		P99Ms:     496,
	}
	if diff := cmp.Diff(want, stats.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStats_ClassifiesFailures(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(failedOutcome(context.DeadlineExceeded))
	stats.Record(failedOutcome(model.ErrNoParse))
	stats.Record(failedOutcome(model.ErrSentenceTooLong))
	stats.Record(failedOutcome(errors.New("parser panic: boom")))

	snap := stats.Snapshot()
	if snap.Failed != 4 || snap.TimedOut != 1 || snap.NoParse != 2 {
		t.Errorf("expected 4 failed, 1 timed out, 2 no parse, got %+v", snap)
	}
	if snap.Count != 0 || snap.MaxMs != 0 {
		t.Errorf("expected failures kept out of latency, got %+v", snap)
	}
}

func TestParseStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewParseStats(10 * time.Millisecond)
	stats.Record(parsedOutcome(3, 100*time.Millisecond))
	stats.Record(failedOutcome(context.DeadlineExceeded))
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 || snap.Failed != 0 {
		t.Fatalf("expected empty window after prune, got %+v", snap)
	}

	stats.Record(parsedOutcome(2, 200*time.Millisecond))
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh 200ms sample, got %+v", snap)
	}
}

func TestParseStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(parsedOutcome(1, -10*time.Millisecond))
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}
