// Package control wires the application together and manages its lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/walletdemo/internal/core/config"
	"github.com/vietddude/walletdemo/internal/core/domain"
	"github.com/vietddude/walletdemo/internal/infra/provider"
	"github.com/vietddude/walletdemo/internal/infra/solana"
	"github.com/vietddude/walletdemo/internal/infra/storage"
	"github.com/vietddude/walletdemo/internal/infra/storage/memory"
	"github.com/vietddude/walletdemo/internal/infra/storage/postgres"
	"github.com/vietddude/walletdemo/internal/server"
	"github.com/vietddude/walletdemo/internal/session"
)

// App is the main application struct that owns all components.
type App struct {
	cfg    config.AppConfig
	chain  *solana.Client
	sess   *session.Session
	server *server.Server
	db     *postgres.DB
	log    *slog.Logger
}

// NewApp creates an App with all dependencies initialized. Wallet-provider
// detection runs here, inside the configured grace window; the app comes up
// in a degraded mode when no provider is found.
func NewApp(ctx context.Context, cfg config.AppConfig) (*App, error) {
	log := slog.Default().With("component", "app")

	// 1. Storage
	var store storage.ActivityRepository
	var db *postgres.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		store = postgres.NewActivityRepo(db)
		log.Info("Using PostgreSQL storage")
	} else {
		store = memory.NewActivityRepo()
		log.Info("Using Memory storage")
	}

	// 2. Network client
	chain, err := solana.NewClient(solana.Config{
		RPCURL:         cfg.Network.RPCURL,
		Commitment:     cfg.Network.Commitment,
		ConfirmTimeout: cfg.Network.ConfirmTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init rpc client: %w", err)
	}

	// 3. Wallet provider
	prov, detected := provider.Detect(ctx, provider.DetectConfig{
		KeystorePath: cfg.Provider.KeystorePath,
		Window:       cfg.Provider.DetectWindow,
		Interval:     cfg.Provider.DetectInterval,
	})
	if !detected {
		log.Warn("No wallet provider detected, wallet actions disabled",
			"window", cfg.Provider.DetectWindow)
	}

	// 4. Session
	sess := session.New(session.Config{
		FaucetLamports:    domain.Lamports(cfg.Demo.FaucetLamports),
		TransferLamports:  domain.Lamports(cfg.Demo.TransferLamports),
		FeeMarginLamports: domain.Lamports(cfg.Demo.FeeMarginLamports),
	}, chain, prov, store)

	// 5. HTTP surface
	checkers := map[string]server.Checker{"rpc": chain}
	if db != nil {
		checkers["database"] = db
	}
	srv := server.NewServer(sess, checkers, cfg.Server.Port)

	return &App{
		cfg:    cfg,
		chain:  chain,
		sess:   sess,
		server: srv,
		db:     db,
		log:    log,
	}, nil
}

// Session exposes the orchestrator for frontends.
func (a *App) Session() *session.Session {
	return a.sess
}

// Start starts the HTTP server in the background.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()
	a.log.Info("Application started",
		"network", a.cfg.Network.ID,
		"port", a.cfg.Server.Port)
	return nil
}

// Stop shuts down the server and closes the database.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping application...")

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}

	return a.server.Stop(ctx)
}
