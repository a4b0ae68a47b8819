// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/store"
	"github.com/olegiv/odash-go/internal/testutil"
	"github.com/olegiv/odash-go/internal/util"
)

func newTestQueries(t *testing.T) *store.Queries {
	t.Helper()
	return store.New(testutil.TestDB(t))
}

func createDashboard(t *testing.T, q *store.Queries, name string) model.Dashboard {
	t.Helper()
	d, err := q.CreateDashboard(context.Background(), store.CreateDashboardParams{
		Name: name, OwnerID: 1,
	})
	if err != nil {
		t.Fatalf("CreateDashboard(%q): %v", name, err)
	}
	return d
}

func createItem(t *testing.T, q *store.Queries, title string, parentID sql.NullInt64) model.MenuItem {
	t.Helper()
	item, err := q.CreateMenuItem(context.Background(), store.CreateMenuItemParams{
		Title:    title,
		Type:     model.MenuTypeSlice,
		Target:   util.NullStringFromValue(util.Slugify(title)),
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem(%q): %v", title, err)
	}
	return item
}

func TestGetDashboard(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	created := createDashboard(t, q, "Main")

	got, err := q.GetDashboard(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if got.Name != "Main" || got.OwnerID != 1 {
		t.Errorf("got %+v, want name Main owner 1", got)
	}

	if _, err := q.GetDashboard(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing dashboard: err = %v, want ErrNotFound", err)
	}
}

func TestGetWorkspaceNotFound(t *testing.T) {
	q := newTestQueries(t)
	if _, err := q.GetWorkspace(context.Background(), 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListMenuUsagesScoping(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	dash := createDashboard(t, q, "Main")
	ws, err := q.CreateWorkspace(ctx, store.CreateWorkspaceParams{Name: "Eng", DashboardID: dash.ID})
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	overview := createItem(t, q, "Overview", sql.NullInt64{})
	board := createItem(t, q, "Board", sql.NullInt64{})

	if _, err := q.CreateMenuUsage(ctx, store.CreateMenuUsageParams{
		MenuID: overview.ID, DashboardID: dash.ID, OrderIndex: 0,
	}); err != nil {
		t.Fatalf("CreateMenuUsage dashboard: %v", err)
	}
	if _, err := q.CreateMenuUsage(ctx, store.CreateMenuUsageParams{
		MenuID: board.ID, DashboardID: dash.ID,
		WorkspaceID: util.NullInt64FromValue(ws.ID), OrderIndex: 0,
	}); err != nil {
		t.Fatalf("CreateMenuUsage workspace: %v", err)
	}

	dashEntries, err := q.ListMenuUsages(ctx, model.DashboardScope(dash.ID))
	if err != nil {
		t.Fatalf("ListMenuUsages dashboard: %v", err)
	}
	if len(dashEntries) != 1 || dashEntries[0].Item.Title != "Overview" {
		t.Errorf("dashboard scope entries = %d, want only Overview", len(dashEntries))
	}

	wsEntries, err := q.ListMenuUsages(ctx, model.WorkspaceScope(dash.ID, ws.ID))
	if err != nil {
		t.Fatalf("ListMenuUsages workspace: %v", err)
	}
	// Workspace scope fetches both workspace and dashboard-level rows; the
	// builder decides which dashboard-level items merge in.
	if len(wsEntries) != 2 {
		t.Errorf("workspace scope entries = %d, want 2", len(wsEntries))
	}
}

func TestListMenuUsagesOrdering(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	dash := createDashboard(t, q, "Main")
	a := createItem(t, q, "Alpha", sql.NullInt64{})
	b := createItem(t, q, "Beta", sql.NullInt64{})

	// Insert Beta first with a higher order index.
	if _, err := q.CreateMenuUsage(ctx, store.CreateMenuUsageParams{
		MenuID: b.ID, DashboardID: dash.ID, OrderIndex: 5,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := q.CreateMenuUsage(ctx, store.CreateMenuUsageParams{
		MenuID: a.ID, DashboardID: dash.ID, OrderIndex: 1,
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := q.ListMenuUsages(ctx, model.DashboardScope(dash.ID))
	if err != nil {
		t.Fatalf("ListMenuUsages: %v", err)
	}
	if len(entries) != 2 || entries[0].Item.Title != "Alpha" || entries[1].Item.Title != "Beta" {
		t.Errorf("entries not ordered by order_index: %+v", entries)
	}
}

func TestCreateMenuUsageForeignWorkspaceRejected(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	dash1 := createDashboard(t, q, "One")
	dash2 := createDashboard(t, q, "Two")
	ws, err := q.CreateWorkspace(ctx, store.CreateWorkspaceParams{Name: "Eng", DashboardID: dash1.ID})
	if err != nil {
		t.Fatal(err)
	}
	item := createItem(t, q, "Stray", sql.NullInt64{})

	_, err = q.CreateMenuUsage(ctx, store.CreateMenuUsageParams{
		MenuID: item.ID, DashboardID: dash2.ID,
		WorkspaceID: util.NullInt64FromValue(ws.ID),
	})
	if err == nil {
		t.Error("usage with foreign workspace accepted, want error")
	}
}

func TestCreateMenuUsageUniquePerScope(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	dash := createDashboard(t, q, "Main")
	item := createItem(t, q, "Overview", sql.NullInt64{})

	params := store.CreateMenuUsageParams{MenuID: item.ID, DashboardID: dash.ID}
	if _, err := q.CreateMenuUsage(ctx, params); err != nil {
		t.Fatalf("first usage: %v", err)
	}
	if _, err := q.CreateMenuUsage(ctx, params); err == nil {
		t.Error("duplicate usage for scope accepted, want unique violation")
	}
}

func TestUpdateMenuItemParentRejectsCycle(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	parent := createItem(t, q, "Parent", sql.NullInt64{})
	child := createItem(t, q, "Child", util.NullInt64FromValue(parent.ID))

	err := q.UpdateMenuItemParent(ctx, parent.ID, util.NullInt64FromValue(child.ID))
	if !errors.Is(err, store.ErrMenuCycle) {
		t.Errorf("reparenting into own subtree: err = %v, want ErrMenuCycle", err)
	}
}

func TestCreateMenuItemTitleUniquePerParent(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	parent := createItem(t, q, "Reports", sql.NullInt64{})
	createItem(t, q, "Weekly", util.NullInt64FromValue(parent.ID))

	// Same title under the same parent is rejected.
	if _, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		Title: "Weekly", Type: model.MenuTypeSlice,
		ParentID: util.NullInt64FromValue(parent.ID),
	}); err == nil {
		t.Error("duplicate title under same parent accepted")
	}

	// Same title at the root level is also covered by the constraint.
	createItem(t, q, "Standalone", sql.NullInt64{})
	if _, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		Title: "Standalone", Type: model.MenuTypeSlice,
	}); err == nil {
		t.Error("duplicate root title accepted")
	}

	// But the same title under a different parent is fine.
	if _, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		Title: "Weekly", Type: model.MenuTypeSlice,
	}); err != nil {
		t.Errorf("same title under different parent rejected: %v", err)
	}
}

func TestCreateMenuPermissionValidation(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	item := createItem(t, q, "Settings", sql.NullInt64{})

	// Both principals set.
	if _, err := q.CreateMenuPermission(ctx, store.CreateMenuPermissionParams{
		MenuID:         item.ID,
		UserID:         util.NullInt64FromValue(1),
		RoleID:         util.NullInt64FromValue(2),
		PermissionType: model.PermissionFull,
	}); err == nil {
		t.Error("permission with both user and role accepted")
	}

	// Neither set.
	if _, err := q.CreateMenuPermission(ctx, store.CreateMenuPermissionParams{
		MenuID: item.ID, PermissionType: model.PermissionFull,
	}); err == nil {
		t.Error("permission with no principal accepted")
	}

	// Bad type.
	if _, err := q.CreateMenuPermission(ctx, store.CreateMenuPermissionParams{
		MenuID: item.ID, UserID: util.NullInt64FromValue(1), PermissionType: "admin",
	}); err == nil {
		t.Error("permission with invalid type accepted")
	}
}

func TestListMenuPermissions(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	settings := createItem(t, q, "Settings", sql.NullInt64{})
	other := createItem(t, q, "Other", sql.NullInt64{})

	for _, p := range []store.CreateMenuPermissionParams{
		{MenuID: settings.ID, UserID: util.NullInt64FromValue(1), PermissionType: model.PermissionNone},
		{MenuID: settings.ID, RoleID: util.NullInt64FromValue(100), PermissionType: model.PermissionFull},
		{MenuID: other.ID, RoleID: util.NullInt64FromValue(100), PermissionType: model.PermissionView},
	} {
		if _, err := q.CreateMenuPermission(ctx, p); err != nil {
			t.Fatalf("CreateMenuPermission: %v", err)
		}
	}

	rows, err := q.ListMenuPermissions(ctx, []int64{settings.ID})
	if err != nil {
		t.Fatalf("ListMenuPermissions: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows for Settings, want 2", len(rows))
	}

	rows, err = q.ListMenuPermissions(ctx, nil)
	if err != nil {
		t.Fatalf("ListMenuPermissions(nil): %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows for empty ID list, want 0", len(rows))
	}
}

func TestDeleteDashboardCascades(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	dash := createDashboard(t, q, "Main")
	ws, err := q.CreateWorkspace(ctx, store.CreateWorkspaceParams{Name: "Eng", DashboardID: dash.ID})
	if err != nil {
		t.Fatal(err)
	}
	item := createItem(t, q, "Overview", sql.NullInt64{})
	if _, err := q.CreateMenuUsage(ctx, store.CreateMenuUsageParams{
		MenuID: item.ID, DashboardID: dash.ID,
	}); err != nil {
		t.Fatal(err)
	}

	if err := q.DeleteDashboard(ctx, dash.ID); err != nil {
		t.Fatalf("DeleteDashboard: %v", err)
	}

	if _, err := q.GetWorkspace(ctx, ws.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("workspace survived cascade: err = %v", err)
	}
	entries, err := q.ListMenuUsages(ctx, model.DashboardScope(dash.ID))
	if err != nil {
		t.Fatalf("ListMenuUsages: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("usages survived cascade: %d rows", len(entries))
	}
	// The menu item itself is shared, not owned, and must survive.
	if _, err := q.ListMenuPermissions(ctx, []int64{item.ID}); err != nil {
		t.Errorf("menu item lookup after cascade: %v", err)
	}
}
