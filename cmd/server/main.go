package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/vytor/neurorecall/internal/api"
	"github.com/vytor/neurorecall/internal/config"
	"github.com/vytor/neurorecall/internal/db"
	"github.com/vytor/neurorecall/internal/jobs"
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/repository/sqlite"
	"github.com/vytor/neurorecall/internal/services"
	"github.com/vytor/neurorecall/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "neurorecall: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "neurorecall: invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	log.Info("neurorecall server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("due_limit=%d", cfg.DueLimit)
	log.Debug("import_workers=%d", cfg.ImportWorkers)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		log.Debug("closing database connection")
		if err := database.Close(); err != nil {
			log.Warn("failed to close database: %v", err)
		}
	}()

	deckRepo := sqlite.NewDeckRepository(database)
	cardRepo := sqlite.NewCardRepository(database)
	reviewRepo := sqlite.NewReviewRepository(database)
	statsRepo := sqlite.NewStatsRepository(database)

	importPool := worker.NewPool(cfg.ImportWorkers, cfg.ImportQueueSize)
	queue := jobs.NewWorkerQueue(importPool, cardRepo)

	opts := []services.Option{
		services.WithLocation(cfg.Location()),
		services.WithDueLimit(cfg.DueLimit),
	}
	srv := &api.Server{
		Decks:          services.NewDeckService(deckRepo, statsRepo, opts...),
		Cards:          services.NewCardService(deckRepo, cardRepo, reviewRepo, opts...),
		Coach:          services.NewCoachService(opts...),
		Imports:        services.NewImportService(deckRepo, queue),
		DB:             database,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	importPool.Start(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		importPool.Stop()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received, draining")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}
	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("neurorecall server stopped")
	return nil
}
