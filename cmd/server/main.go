package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/sentparse/internal/api"
	"github.com/dgallion1/sentparse/internal/config"
	"github.com/dgallion1/sentparse/internal/pipeline"
)

func main() {
	cfg := config.Load()
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the parser once; every request shares it.
	m, _, err := pipeline.LoadModel(ctx, cfg, log)
	if err != nil {
		log.Error("failed to load model", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}

	stats := pipeline.NewParseStats(cfg.StatsWindow)
	runner, err := pipeline.NewRunnerFromConfig(m, cfg, stats, log)
	if err != nil {
		log.Error("failed to build runner", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Workers:     cfg.JobWorkers,
		QueueSize:   cfg.MaxQueueSize,
		JobTTL:      cfg.JobTTL,
		PDFFallback: cfg.PDFFallbackPdftotext,
	}, runner, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		m.Close()
	}()

	log.Info("starting sentparse", "port", cfg.Port, "backend", cfg.Backend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
