// Command parsedemo parses a paragraph sentence by sentence and prints each
// tree, its tagged words and its typed dependencies.
//
// Usage: parsedemo [model-path]
package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/sentparse/internal/config"
	"github.com/dgallion1/sentparse/internal/input"
	"github.com/dgallion1/sentparse/internal/pipeline"
	"github.com/dgallion1/sentparse/internal/render"
)

func main() {
	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		cfg.ModelPath = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, opts, err := pipeline.LoadModel(ctx, cfg, log)
	if err != nil {
		log.Error("failed to load model", "backend", cfg.Backend, "path", cfg.ModelPath, "error", err)
		os.Exit(1)
	}
	defer m.Close()

	paragraphs := []string{input.DemoParagraph}
	if cfg.InputFile != "" {
		doc, err := input.ReadFile(cfg.InputFile, cfg.PDFFallbackPdftotext)
		if err != nil {
			var re *input.ReadError
			if errors.As(err, &re) {
				log.Error("failed to read input", "path", re.Path, "error", re.Err)
			} else {
				log.Error("failed to read input", "error", err)
			}
			m.Close()
			os.Exit(1)
		}
		paragraphs = doc.Texts()
		log.Info("read input", "path", cfg.InputFile, "title", doc.Title, "paragraphs", len(paragraphs))
	}

	runner, err := pipeline.NewRunnerFromConfig(m, cfg, nil, log)
	if err != nil {
		log.Error("failed to build runner", "error", err)
		m.Close()
		os.Exit(1)
	}

	report := runner.RunParagraphs(ctx, paragraphs)

	out := bufio.NewWriter(os.Stdout)
	if err := render.Write(out, cfg.OutputFormat, report, opts); err != nil {
		log.Error("failed to write output", "error", err)
		m.Close()
		os.Exit(1)
	}
	if err := out.Flush(); err != nil {
		log.Error("failed to write output", "error", err)
		m.Close()
		os.Exit(1)
	}
}
