// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: sweeping expired cache
// entries and pruning old event log rows.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/odash-go/internal/store"
)

// Sweeper removes expired entries from a cache backend. The in-process
// memory cache implements it; backends with native expiry do not need to.
type Sweeper interface {
	RemoveExpired() int
}

// Options configures the maintenance jobs.
type Options struct {
	// EventRetention is how long event log rows are kept. Zero disables
	// pruning.
	EventRetention time.Duration
	// Sweeper, when set, has its expired entries removed hourly.
	Sweeper Sweeper
}

// Scheduler owns the cron runner for maintenance jobs.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
	opts   Options
}

// New creates a scheduler. Call Start to register and run the jobs.
func New(db *sql.DB, logger *slog.Logger, opts Options) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
		opts:   opts,
	}
}

// Start registers the maintenance jobs and begins running them.
func (s *Scheduler) Start() error {
	if s.opts.Sweeper != nil {
		// Hourly, on the hour
		if _, err := s.cron.AddFunc("0 * * * *", s.sweepCache); err != nil {
			return err
		}
	}
	if s.opts.EventRetention > 0 {
		// Daily at 03:30
		if _, err := s.cron.AddFunc("30 3 * * *", s.pruneEvents); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) sweepCache() {
	removed := s.opts.Sweeper.RemoveExpired()
	if removed > 0 {
		s.logger.Info("removed expired cache entries",
			"category", "cache",
			"count", removed,
		)
	}
}

func (s *Scheduler) pruneEvents() {
	ctx := context.Background()
	cutoff := time.Now().Add(-s.opts.EventRetention)

	removed, err := store.New(s.db).DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to prune event log",
			"category", "scheduler",
			"error", err,
		)
		return
	}
	if removed > 0 {
		s.logger.Info("pruned event log",
			"category", "scheduler",
			"removed", removed,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
}
