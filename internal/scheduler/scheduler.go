// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler keeps the configuration cache warm by periodically
// re-fetching the remote document.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic cache refresh job.
type Scheduler struct {
	cron    *cron.Cron
	refresh func(ctx context.Context) error
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a scheduler around the given refresh function.
func New(refresh func(ctx context.Context) error, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		refresh: refresh,
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

// Start registers the refresh job under the given cron spec
// (e.g. "@every 15m") and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runRefresh)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", spec, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runRefresh executes one cache refresh. Failures are logged, never fatal:
// the cached or default document keeps serving until the next run.
func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.refresh(ctx); err != nil {
		s.logger.Warn("cache refresh failed", "source", "scheduler", "error", err)
		return
	}
	s.logger.Info("configuration cache refreshed", "duration", time.Since(start).Round(time.Millisecond))
}
