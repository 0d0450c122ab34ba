// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRunsRefreshJob(t *testing.T) {
	var calls atomic.Int32
	s := New(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, slog.Default())

	if err := s.Start("@every 100ms"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("refresh job never ran")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := New(func(ctx context.Context) error { return nil }, slog.Default())
	if err := s.Start("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestSchedulerSurvivesFailingJob(t *testing.T) {
	var calls atomic.Int32
	s := New(func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("remote unreachable")
	}, slog.Default())

	if err := s.Start("@every 100ms"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("job stopped after failure, calls = %d", calls.Load())
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestSchedulerStopWaitsForJobs(t *testing.T) {
	s := New(func(ctx context.Context) error { return nil }, slog.Default())
	if err := s.Start("@every 1h"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
