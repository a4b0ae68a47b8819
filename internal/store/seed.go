package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/util"
)

// Default dashboard created on first start.
const (
	DefaultDashboardName = "Main"
	DefaultOwnerID       = 1
)

// Seed creates the initial dashboard with its core menu set. Idempotent:
// a second run is a no-op.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetDashboardByName(ctx, DefaultDashboardName)
	if err == nil {
		slog.Info("default dashboard already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for default dashboard: %w", err)
	}

	dashboard, err := queries.CreateDashboard(ctx, CreateDashboardParams{
		Name:        DefaultDashboardName,
		Description: util.NullStringFromValue("Default dashboard"),
		OwnerID:     DefaultOwnerID,
	})
	if err != nil {
		return fmt.Errorf("creating default dashboard: %w", err)
	}

	// Core menu set, attached at dashboard scope in display order.
	core := []struct {
		title  string
		icon   string
		global bool
	}{
		{"Overview", "layout-dashboard", false},
		{"Tasks", "list-checks", false},
		{"Settings", "settings", false},
		{"Help", "circle-help", true},
	}

	for i, m := range core {
		item, err := queries.CreateMenuItem(ctx, CreateMenuItemParams{
			Title:         m.title,
			Type:          model.MenuTypeSlice,
			Icon:          util.NullStringFromValue(m.icon),
			Target:        util.NullStringFromValue(util.Slugify(m.title)),
			GlobalContext: m.global,
		})
		if err != nil {
			return fmt.Errorf("seeding menu item %q: %w", m.title, err)
		}
		if _, err := queries.CreateMenuUsage(ctx, CreateMenuUsageParams{
			MenuID:      item.ID,
			DashboardID: dashboard.ID,
			OrderIndex:  i,
		}); err != nil {
			return fmt.Errorf("seeding menu usage %q: %w", m.title, err)
		}
	}

	slog.Info("seeded default dashboard",
		"id", dashboard.ID,
		"name", dashboard.Name,
		"menus", len(core),
	)

	return nil
}
