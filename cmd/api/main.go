package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/config"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/engine"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/ledger"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/notify"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/rates"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/repository"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/rework"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL (connection refused or invalid). Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL database successfully!")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed. If the error is 'connection refused', start PostgreSQL first", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Repositories
	holdRepo := repository.NewHoldRepo(pool)
	reworkRepo := repository.NewReworkRepo(pool)
	releaseRepo := repository.NewReleaseRepo(pool)
	workRepo := repository.NewWorkAssignmentRepo(pool)
	earningsRepo := repository.NewEarningsRepo(pool)
	apiKeyRepo := repository.NewAPIKeyRepo(pool)

	// Earnings ledger with the external rate lookup behind it
	rateClient := rates.NewClient(cfg.RateLookupURL, cfg.DefaultRate(), cfg.RateCacheTTL)
	ledgerSvc := ledger.NewService(earningsRepo, rateClient)

	// Notifications: insert func is set after the River client is
	// created (breaks init cycle)
	var insertMu sync.Mutex
	var insertFn engine.InsertHoldEventTxFunc
	insertHoldEvent := func(ctx context.Context, tx pgx.Tx, args notify.HoldEventArgs) error {
		insertMu.Lock()
		fn := insertFn
		insertMu.Unlock()
		if fn == nil {
			panic("river insert not wired")
		}
		return fn(ctx, tx, args)
	}

	coordinator := rework.NewCoordinator(reworkRepo, workRepo, cfg.ReworkDueWindow)
	eng := engine.New(pool, engine.Stores{
		Holds:    holdRepo,
		Reworks:  reworkRepo,
		Releases: releaseRepo,
		Works:    workRepo,
	}, ledgerSvc, rateClient, coordinator, insertHoldEvent, logger, engine.Options{
		DefaultSeverity:      cfg.DefaultSeverity,
		StoreTimeout:         cfg.StoreTimeout,
		MaxTransitionRetries: cfg.MaxTransitionRetries,
		RetryBaseInterval:    cfg.RetryBaseInterval,
	})

	workers := river.NewWorkers()
	river.AddWorker(workers, notify.NewHoldEventWorker(cfg.NotifyWebhookURL))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	insertMu.Lock()
	insertFn = func(ctx context.Context, tx pgx.Tx, args notify.HoldEventArgs) error {
		_, err := riverClient.InsertTx(ctx, tx, args, nil)
		return err
	}
	insertMu.Unlock()

	mux := http.NewServeMux()
	RegisterV1Routes(mux, eng, apiKeyRepo, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	// Start River client (delivers hold-event notifications)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	serverAddr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
