package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/store"
	"github.com/olegiv/odash-go/internal/testutil"
)

func newTestHandler(t *testing.T) (*slog.Logger, *store.Queries) {
	t.Helper()
	db := testutil.TestDB(t)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewEventLogHandler(inner, db)), store.New(db)
}

func TestHandlerPersistsWarnings(t *testing.T) {
	logger, queries := newTestHandler(t)
	ctx := context.Background()

	logger.Warn("duplicate menu usage in scope, dropping",
		"category", "menu",
		"menu_id", int64(10),
		"dropped_usage_id", int64(7),
	)

	events, err := queries.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Level != model.EventLevelWarning {
		t.Errorf("level = %q, want warning", ev.Level)
	}
	if ev.Category != model.EventCategoryMenu {
		t.Errorf("category = %q, want menu", ev.Category)
	}
	if !strings.Contains(ev.Metadata, `"menu_id":"10"`) {
		t.Errorf("metadata = %q, missing menu_id", ev.Metadata)
	}
	if strings.Contains(ev.Metadata, "category") {
		t.Errorf("metadata = %q, category should be extracted, not embedded", ev.Metadata)
	}
}

func TestHandlerSkipsInfo(t *testing.T) {
	logger, queries := newTestHandler(t)

	logger.Info("feature registry loaded", "static", 3)

	events, err := queries.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0 for info level", len(events))
	}
}

func TestHandlerExtractsUserID(t *testing.T) {
	logger, queries := newTestHandler(t)

	logger.Error("permission lookup failed", "user_id", int64(42))

	events, err := queries.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Level != model.EventLevelError {
		t.Errorf("level = %q, want error", ev.Level)
	}
	if !ev.UserID.Valid || ev.UserID.Int64 != 42 {
		t.Errorf("user id = %+v, want 42", ev.UserID)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"duplicate menu usage", model.EventCategoryMenu},
		{"manifest parse failed", model.EventCategoryFeature},
		{"cache backend unavailable", model.EventCategoryCache},
		{"scheduler job panicked", model.EventCategoryScheduler},
		{"seed data incomplete", model.EventCategoryStore},
		{"something else entirely", model.EventCategorySystem},
	}
	for _, tt := range tests {
		if got := inferCategory(tt.msg); got != tt.want {
			t.Errorf("inferCategory(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
