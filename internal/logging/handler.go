// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the events table, so data-integrity warnings from the menu
// pipeline survive process restarts and are queryable.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/store"
)

// EventLogHandler wraps another slog.Handler and additionally persists
// records at or above a threshold level as events.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler creates a handler persisting WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom threshold.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// persist writes the record to the events table. It uses a background
// context so the event lands even when the request context is already
// cancelled; a write failure is dropped rather than failing the log call.
func (h *EventLogHandler) persist(r slog.Record) {
	category, userID, metadata := splitAttrs(r)
	if category == "" {
		category = inferCategory(r.Message)
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		UserID:    userID,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// splitAttrs pulls the category and user_id attributes out of the record
// and packs the remainder into a JSON metadata string.
func splitAttrs(r slog.Record) (category string, userID sql.NullInt64, metadata string) {
	rest := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "category":
			category = a.Value.String()
		case "user_id":
			if a.Value.Kind() == slog.KindInt64 {
				userID = sql.NullInt64{Int64: a.Value.Int64(), Valid: true}
			} else {
				rest[a.Key] = a.Value.String()
			}
		default:
			rest[a.Key] = a.Value.String()
		}
		return true
	})

	if len(rest) == 0 {
		return category, userID, "{}"
	}
	data, err := json.Marshal(rest)
	if err != nil {
		return category, userID, "{}"
	}
	return category, userID, string(data)
}

// inferCategory guesses a category from the message when the record does
// not carry one.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "menu") || strings.Contains(msg, "usage"):
		return model.EventCategoryMenu
	case strings.Contains(msg, "feature") || strings.Contains(msg, "manifest") || strings.Contains(msg, "catalog"):
		return model.EventCategoryFeature
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	case strings.Contains(msg, "schedul") || strings.Contains(msg, "cron"):
		return model.EventCategoryScheduler
	case strings.Contains(msg, "database") || strings.Contains(msg, "migrat") || strings.Contains(msg, "seed"):
		return model.EventCategoryStore
	default:
		return model.EventCategorySystem
	}
}
