package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/sentparse/internal/config"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/model/corenlp"
	"github.com/dgallion1/sentparse/internal/model/treebank"
	"github.com/dgallion1/sentparse/internal/segment"
)

// LoadModel loads the configured parser back end once, with the configured
// option list.
func LoadModel(ctx context.Context, cfg config.Config, log *slog.Logger) (model.Model, model.Options, error) {
	opts, err := cfg.ParserOptions()
	if err != nil {
		return nil, opts, fmt.Errorf("parser options: %w", err)
	}
	switch cfg.Backend {
	case config.BackendTreebank:
		m, err := treebank.Load(cfg.ModelPath, opts)
		if err != nil {
			return nil, opts, err
		}
		log.Info("loaded treebank model", "source", m.Source(), "sentences", m.Len(), "flags", opts.Flags())
		return m, opts, nil
	case config.BackendCoreNLP:
		m, err := corenlp.Load(ctx, corenlp.Config{
			URL:       cfg.CoreNLPURL,
			ModelPath: cfg.ModelPath,
			RPS:       cfg.CoreNLPRPS,
			Timeout:   cfg.CoreNLPTimeout,
		}, opts, log)
		if err != nil {
			return nil, opts, err
		}
		log.Info("connected to corenlp", "url", cfg.CoreNLPURL, "flags", opts.Flags())
		return m, opts, nil
	default:
		return nil, opts, fmt.Errorf("unknown parser backend %q", cfg.Backend)
	}
}

// NewRunnerFromConfig wires a loaded model with the configured segmenter and
// pool settings.
func NewRunnerFromConfig(m model.Model, cfg config.Config, stats *ParseStats, log *slog.Logger) (*Runner, error) {
	seg, err := segment.New(cfg.Segmenter, cfg.PunktTraining)
	if err != nil {
		return nil, err
	}
	return NewRunner(m, Options{
		Segmenter: seg,
		MaxWords:  cfg.MaxSentenceWords,
		Workers:   cfg.WorkerCount,
		Timeout:   cfg.SentenceTimeout,
		Stats:     stats,
	}, log), nil
}
