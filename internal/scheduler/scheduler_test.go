// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/olegiv/odash-go/internal/store"
	"github.com/olegiv/odash-go/internal/testutil"
)

type countingSweeper struct{ calls int }

func (s *countingSweeper) RemoveExpired() int {
	s.calls++
	return 3
}

func TestSchedulerStartStop(t *testing.T) {
	db := testutil.TestDB(t)
	s := New(db, testutil.TestLogger(t), Options{
		EventRetention: 24 * time.Hour,
		Sweeper:        &countingSweeper{},
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("registered jobs = %d, want 2", got)
	}
	s.Stop()
}

func TestSchedulerNoJobsWithoutOptions(t *testing.T) {
	db := testutil.TestDB(t)
	s := New(db, testutil.TestLogger(t), Options{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()
	if got := len(s.cron.Entries()); got != 0 {
		t.Errorf("registered jobs = %d, want 0", got)
	}
}

func TestPruneEvents(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	for _, created := range []time.Time{old, time.Now()} {
		if _, err := queries.CreateEvent(ctx, store.CreateEventParams{
			Level:     "warning",
			Category:  "menu",
			Message:   "duplicate menu usage",
			UserID:    sql.NullInt64{},
			Metadata:  "{}",
			CreatedAt: created,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	s := New(db, testutil.TestLoggerSilent(t), Options{EventRetention: 24 * time.Hour})
	s.pruneEvents()

	events, err := queries.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events after prune, want 1", len(events))
	}
}

func TestSweepCache(t *testing.T) {
	db := testutil.TestDB(t)
	sw := &countingSweeper{}
	s := New(db, testutil.TestLogger(t), Options{Sweeper: sw})

	s.sweepCache()
	if sw.calls != 1 {
		t.Errorf("sweeper calls = %d, want 1", sw.calls)
	}
}
