package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryMenu      = "menu"
	EventCategoryFeature   = "feature"
	EventCategoryStore     = "store"
	EventCategoryCache     = "cache"
	EventCategoryScheduler = "scheduler"
	EventCategorySystem    = "system"
)

// Event represents a system event log entry. Data-integrity warnings from
// the menu builder land here through the logging handler.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string // JSON string
	CreatedAt time.Time
}
