package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/sentparse/internal/input"
)

// Worker processes a single document job.
type Worker struct {
	runner      *Runner
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(runner *Runner, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{runner: runner, log: log, pdfFallback: pdfFallback}
}

// Process reads the uploaded document and parses its sentences.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Read
	job.SetStatus(StatusReading, "reading")
	rd, err := input.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "reading")
		return
	}
	if p, ok := rd.(*input.PDFReader); ok {
		p.FallbackPdftotext = w.pdfFallback
	}
	doc, err := rd.Read(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("read failed", "error", err)
		job.AddError(fmt.Sprintf("read: %s", err))
		job.SetStatus(StatusFailed, "reading")
		return
	}
	job.SetTitle(doc.Title)
	if len(doc.Paragraphs) == 0 {
		log.Warn("no text found")
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, "reading")
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	report := w.runner.RunObserved(ctx, doc.Texts(), job)
	job.Finish(report)

	parsed, failed := report.Parsed(), len(report.Failed())
	log.Info("parse complete", "parsed", parsed, "failed", failed, "dropped", len(report.Dropped))

	switch {
	case failed == 0:
		job.SetStatus(StatusCompleted, "done")
	case parsed > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "parsing")
	}
}
