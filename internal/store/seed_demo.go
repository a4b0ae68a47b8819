// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

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

// Demo tenant fixtures.
const (
	DemoDashboardName = "Acme Corp"
	DemoOwnerID       = 2
	DemoAdminRoleID   = 1
	DemoViewerRoleID  = 2
	DemoUserID        = 2
)

// SeedDemoOptions controls demo content seeding.
type SeedDemoOptions struct {
	// Enabled turns demo seeding on; off by default.
	Enabled bool
	// OpenGrants gives the demo user a full grant on every demo menu.
	// Demo convenience only: it makes the permission filter pass everything
	// for that user and must never be the production default.
	OpenGrants bool
}

// SeedDemo creates a demo tenant: a dashboard with two workspaces, a nested
// menu tree mixing dashboard-level, workspace-level and global-context
// items, and a small permission matrix. Idempotent.
func SeedDemo(ctx context.Context, db *sql.DB, opts SeedDemoOptions) error {
	if !opts.Enabled {
		return nil
	}

	queries := New(db)

	_, err := queries.GetDashboardByName(ctx, DemoDashboardName)
	if err == nil {
		slog.Info("demo dashboard already exists, skipping demo seed")
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for demo dashboard: %w", err)
	}

	dashboard, err := queries.CreateDashboard(ctx, CreateDashboardParams{
		Name:           DemoDashboardName,
		Description:    util.NullStringFromValue("Demo tenant"),
		OrganizationID: util.NullInt64FromValue(1),
		OwnerID:        DemoOwnerID,
	})
	if err != nil {
		return fmt.Errorf("creating demo dashboard: %w", err)
	}

	engineering, err := queries.CreateWorkspace(ctx, CreateWorkspaceParams{
		Name:        "Engineering",
		DashboardID: dashboard.ID,
	})
	if err != nil {
		return fmt.Errorf("creating demo workspace: %w", err)
	}
	if _, err := queries.CreateWorkspace(ctx, CreateWorkspaceParams{
		Name:        "Marketing",
		DashboardID: dashboard.ID,
	}); err != nil {
		return fmt.Errorf("creating demo workspace: %w", err)
	}

	// Dashboard-level menus: Reports with two children, plus a global Help.
	reports, err := createDemoItem(ctx, queries, "Reports", "bar-chart", sql.NullInt64{}, false)
	if err != nil {
		return err
	}
	weekly, err := createDemoItem(ctx, queries, "Weekly", "calendar", util.NullInt64FromValue(reports.ID), false)
	if err != nil {
		return err
	}
	monthly, err := createDemoItem(ctx, queries, "Monthly", "calendar-days", util.NullInt64FromValue(reports.ID), false)
	if err != nil {
		return err
	}
	support, err := createDemoItem(ctx, queries, "Support", "life-buoy", sql.NullInt64{}, true)
	if err != nil {
		return err
	}
	admin, err := createDemoItem(ctx, queries, "Admin", "shield", sql.NullInt64{}, false)
	if err != nil {
		return err
	}

	dashboardOrder := []*model.MenuItem{reports, weekly, monthly, support, admin}
	for i, item := range dashboardOrder {
		if _, err := queries.CreateMenuUsage(ctx, CreateMenuUsageParams{
			MenuID:      item.ID,
			DashboardID: dashboard.ID,
			OrderIndex:  i,
		}); err != nil {
			return fmt.Errorf("seeding demo usage %q: %w", item.Title, err)
		}
	}

	// Workspace-level menu: a Board only Engineering sees.
	board, err := createDemoItem(ctx, queries, "Board", "kanban", sql.NullInt64{}, false)
	if err != nil {
		return err
	}
	if _, err := queries.CreateMenuUsage(ctx, CreateMenuUsageParams{
		MenuID:      board.ID,
		DashboardID: dashboard.ID,
		WorkspaceID: util.NullInt64FromValue(engineering.ID),
		OrderIndex:  0,
	}); err != nil {
		return fmt.Errorf("seeding demo workspace usage: %w", err)
	}

	// Admin is role-gated: admins see it, viewers are denied.
	if _, err := queries.CreateMenuPermission(ctx, CreateMenuPermissionParams{
		MenuID:         admin.ID,
		RoleID:         util.NullInt64FromValue(DemoAdminRoleID),
		PermissionType: model.PermissionFull,
	}); err != nil {
		return fmt.Errorf("seeding demo permission: %w", err)
	}
	if _, err := queries.CreateMenuPermission(ctx, CreateMenuPermissionParams{
		MenuID:         admin.ID,
		RoleID:         util.NullInt64FromValue(DemoViewerRoleID),
		PermissionType: model.PermissionNone,
	}); err != nil {
		return fmt.Errorf("seeding demo permission: %w", err)
	}

	if opts.OpenGrants {
		for _, item := range []*model.MenuItem{reports, weekly, monthly, support, admin, board} {
			if _, err := queries.CreateMenuPermission(ctx, CreateMenuPermissionParams{
				MenuID:         item.ID,
				UserID:         util.NullInt64FromValue(DemoUserID),
				PermissionType: model.PermissionFull,
			}); err != nil {
				return fmt.Errorf("seeding demo open grant: %w", err)
			}
		}
		slog.Warn("demo open grants enabled: demo user sees every menu", "user_id", DemoUserID)
	}

	slog.Info("seeded demo dashboard", "id", dashboard.ID, "name", dashboard.Name)
	return nil
}

func createDemoItem(ctx context.Context, queries *Queries, title, icon string, parentID sql.NullInt64, global bool) (*model.MenuItem, error) {
	item, err := queries.CreateMenuItem(ctx, CreateMenuItemParams{
		Title:         title,
		Type:          model.MenuTypeSlice,
		Icon:          util.NullStringFromValue(icon),
		Target:        util.NullStringFromValue(util.Slugify(title)),
		ParentID:      parentID,
		GlobalContext: global,
	})
	if err != nil {
		return nil, fmt.Errorf("seeding demo item %q: %w", title, err)
	}
	return &item, nil
}
