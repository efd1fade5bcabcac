// Package worker bootstraps the River job queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/store"
)

// ComplianceDigestArgs schedules a summary of tracker state across all
// facilities, logged for operators watching readiness ahead of the
// 2026 deadline.
type ComplianceDigestArgs struct{}

// Kind returns the unique job type identifier for digest jobs.
func (ComplianceDigestArgs) Kind() string { return "compliance_digest" }

type complianceDigestWorker struct {
	river.WorkerDefaults[ComplianceDigestArgs]
	repo store.Repository
	log  *slog.Logger
}

func (w *complianceDigestWorker) Work(_ context.Context, _ *river.Job[ComplianceDigestArgs]) error {
	facilities, err := w.repo.ListFacilities()
	if err != nil {
		return fmt.Errorf("list facilities: %w", err)
	}
	progress, err := w.repo.ListProgress()
	if err != nil {
		return fmt.Errorf("list progress: %w", err)
	}
	stages := []string{
		model.StageProfile, model.StageAssessment, model.StageCompliance,
		model.StageFinancial, model.StageDeployment,
	}
	var complete int
	for i := range progress {
		done := true
		for _, s := range stages {
			if v := progress[i].Stage(s); v == nil || !*v {
				done = false
				break
			}
		}
		if done {
			complete++
		}
	}
	w.log.Info("compliance digest",
		"facilities", len(facilities),
		"tracked", len(progress),
		"fully_complete", complete,
	)
	return nil
}

// Queue is the interface exposed by both the real River client and noopQueue.
type Queue interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	EnqueueDigest(ctx context.Context) error
}

// Client wraps river.Client and exposes a Start/Stop lifecycle.
type Client struct {
	client *river.Client[pgx.Tx]
	log    *slog.Logger
}

// Start begins processing queued jobs.
func (c *Client) Start(ctx context.Context) error { return c.client.Start(ctx) }

// Stop gracefully shuts down the worker client.
func (c *Client) Stop(ctx context.Context) error { return c.client.Stop(ctx) }

// EnqueueDigest inserts a compliance digest job.
func (c *Client) EnqueueDigest(ctx context.Context) error {
	if _, err := c.client.Insert(ctx, ComplianceDigestArgs{}, nil); err != nil {
		return fmt.Errorf("enqueue digest: %w", err)
	}
	return nil
}

// noopQueue is used when River is unavailable (memory or sqlite drivers).
type noopQueue struct{ log *slog.Logger }

func (n *noopQueue) Start(_ context.Context) error {
	n.log.Info("worker queue disabled (River requires postgres)")
	return nil
}
func (n *noopQueue) Stop(_ context.Context) error          { return nil }
func (n *noopQueue) EnqueueDigest(_ context.Context) error { return nil }

// New creates a queue implementation appropriate for the given driver.
//   - "postgres": returns a fully-functional River client backed by pool.
//   - anything else: returns a no-op queue that logs a startup notice.
//
// pool may be nil when driver != "postgres".
func New(ctx context.Context, pool *pgxpool.Pool, driver string, concurrency int, repo store.Repository, log *slog.Logger) (Queue, error) {
	if driver != "postgres" {
		return &noopQueue{log: log}, nil
	}
	workers := river.NewWorkers()
	river.AddWorker(workers, &complianceDigestWorker{repo: repo, log: log})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: concurrency},
		},
		Workers: workers,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("create river client: %w", err)
	}
	return &Client{client: client, log: log}, nil
}

// MigrateRiver runs River's built-in schema migrations against the given pool.
// Only call this when DB_DRIVER=postgres.
func MigrateRiver(ctx context.Context, db *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(db), nil)
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("run river migrations: %w", err)
	}
	return nil
}
