// snftrack — AB 2511 backup-power compliance tracker for California
// skilled nursing facilities.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridwell/snftrack/internal/api"
	"github.com/gridwell/snftrack/internal/api/handler"
	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/config"
	"github.com/gridwell/snftrack/internal/db"
	"github.com/gridwell/snftrack/internal/health"
	"github.com/gridwell/snftrack/internal/observability"
	"github.com/gridwell/snftrack/internal/seed"
	"github.com/gridwell/snftrack/internal/store"
	"github.com/gridwell/snftrack/internal/version"
	"github.com/gridwell/snftrack/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability -------------------------------------------------------
	obs, log, err := observability.New(ctx, &observability.Config{
		ServiceName:    "snftrack",
		ServiceVersion: version.Version,
		LogLevel:       cfg.Log.Level,
		LogFormat:      cfg.Log.Format,
		OTLPEndpoint:   cfg.OTel.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer obs.Shutdown(context.Background())
	slog.SetDefault(log)
	log.Info("starting snftrack", "version", version.Version, "commit", version.Commit, "db_driver", cfg.DB.Driver)

	// --- Store ---------------------------------------------------------------
	// DB_DRIVER=memory keeps everything in process, matching the default
	// single-box deployment. sqlite and postgres persist via GORM; db.New
	// runs migrations (AutoMigrate for SQLite, golang-migrate for Postgres)
	// and returns an optional pgxpool (non-nil only for postgres, used by
	// River).
	var (
		repo   store.Repository
		pinger health.Pinger
		pool   *pgxpool.Pool
	)
	if cfg.DB.Driver == "memory" {
		repo = store.NewMemoryStore()
		log.Info("using in-memory store")
	} else {
		gormDB, p, err := db.New(ctx, &cfg.DB)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		pool = p
		if pool != nil {
			defer pool.Close()
		}
		repo = store.NewGormStore(gormDB)
		pinger = db.NewPinger(gormDB)
		log.Info("database ready", "driver", cfg.DB.Driver)
	}
	defer repo.Close()

	// --- Seed users ----------------------------------------------------------
	if err := seed.EnsureDefaultUsers(repo, seed.Options{
		AdminUsername:  cfg.App.SeedAdminUsername,
		AdminPassword:  cfg.App.SeedAdminPassword,
		ClientUsername: cfg.App.SeedClientUsername,
		ClientPassword: cfg.App.SeedClientPassword,
	}, log); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	// --- Worker queue --------------------------------------------------------
	// River migrations only run when Postgres is available.
	if pool != nil {
		if err := worker.MigrateRiver(ctx, pool); err != nil {
			return fmt.Errorf("river migrations: %w", err)
		}
		log.Info("river migrations applied")
	}

	wq, err := worker.New(ctx, pool, cfg.DB.Driver, cfg.Worker.Concurrency, repo, log)
	if err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	if err := wq.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := wq.Stop(stopCtx); err != nil {
			log.Error("worker stop error", "err", err)
		}
	}()
	if err := wq.EnqueueDigest(ctx); err != nil {
		log.Error("enqueue digest", "err", err)
	}

	// --- HTTP routes ---------------------------------------------------------
	sessions := auth.NewSessions(cfg.Session.Secret, cfg.Session.TTL)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.Handlers{
		Health:    health.New(pinger),
		Auth:      handler.NewAuthHandler(repo, sessions, log),
		Facility:  handler.NewFacilityHandler(repo, log),
		Progress:  handler.NewProgressHandler(repo, log),
		Admin:     handler.NewAdminHandler(repo, log),
		DataFiles: handler.NewDataFileHandler(cfg.App.DataDir, log),
		Sessions:  sessions,
	})
	// Prometheus metrics endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Start server --------------------------------------------------------
	log.Info("http server listening", "addr", srv.Addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped cleanly")
	return nil
}
