// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"

	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/store"
	"github.com/olegiv/odash-go/internal/testutil"
)

func TestSeedCreatesCoreMenus(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := store.New(db)
	dash, err := q.GetDashboardByName(ctx, store.DefaultDashboardName)
	if err != nil {
		t.Fatalf("GetDashboardByName: %v", err)
	}

	entries, err := q.ListMenuUsages(ctx, model.DashboardScope(dash.ID))
	if err != nil {
		t.Fatalf("ListMenuUsages: %v", err)
	}

	want := []string{"Overview", "Tasks", "Settings", "Help"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, title := range want {
		if entries[i].Item.Title != title {
			t.Errorf("entry[%d] = %q, want %q", i, entries[i].Item.Title, title)
		}
	}
	if !entries[3].Item.GlobalContext {
		t.Error("Help should be a global context item")
	}
	if entries[0].Item.Target.String != "overview" {
		t.Errorf("Overview target = %q, want overview", entries[0].Item.Target.String)
	}
}

func TestSeedIdempotent(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	count, err := store.New(db).CountDashboards(ctx)
	if err != nil {
		t.Fatalf("CountDashboards: %v", err)
	}
	if count != 1 {
		t.Errorf("dashboards = %d, want 1 after repeated seeding", count)
	}
}

func TestSeedDemoDisabled(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	if err := store.SeedDemo(ctx, db, store.SeedDemoOptions{}); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	count, err := store.New(db).CountDashboards(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("dashboards = %d, want 0 with demo seeding disabled", count)
	}
}

func TestSeedDemoFixtures(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	if err := store.SeedDemo(ctx, db, store.SeedDemoOptions{Enabled: true}); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	// Idempotent, same as the core seed.
	if err := store.SeedDemo(ctx, db, store.SeedDemoOptions{Enabled: true}); err != nil {
		t.Fatalf("second SeedDemo: %v", err)
	}

	q := store.New(db)
	dash, err := q.GetDashboardByName(ctx, store.DemoDashboardName)
	if err != nil {
		t.Fatalf("GetDashboardByName: %v", err)
	}

	entries, err := q.ListMenuUsages(ctx, model.DashboardScope(dash.ID))
	if err != nil {
		t.Fatalf("ListMenuUsages: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("dashboard entries = %d, want 5", len(entries))
	}

	var adminID int64
	for _, e := range entries {
		if e.Item.Title == "Admin" {
			adminID = e.Item.ID
		}
	}
	if adminID == 0 {
		t.Fatal("Admin menu not seeded")
	}

	rows, err := q.ListMenuPermissions(ctx, []int64{adminID})
	if err != nil {
		t.Fatalf("ListMenuPermissions: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Admin permission rows = %d, want 2 (admin full, viewer none)", len(rows))
	}
}

func TestSeedDemoOpenGrants(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	if err := store.SeedDemo(ctx, db, store.SeedDemoOptions{Enabled: true, OpenGrants: true}); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}

	q := store.New(db)
	dash, err := q.GetDashboardByName(ctx, store.DemoDashboardName)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := q.ListMenuUsages(ctx, model.DashboardScope(dash.ID))
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		rows, err := q.ListMenuPermissions(ctx, []int64{e.Item.ID})
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, row := range rows {
			if row.UserID.Valid && row.UserID.Int64 == store.DemoUserID && row.PermissionType == model.PermissionFull {
				found = true
			}
		}
		if !found {
			t.Errorf("menu %q missing open grant for demo user", e.Item.Title)
		}
	}
}
