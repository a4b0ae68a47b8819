// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the entity repository for oDash: the abstract read
// interface the resolution engine consumes, plus a SQLite reference
// implementation with embedded migrations and seeding.
package store

import (
	"context"
	"errors"

	"github.com/olegiv/odash-go/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// EntityStore is the read surface the menu engine depends on. Writes are
// owned by the surrounding admin/CRUD application; the engine only reads.
// Implementations must be safe for concurrent readers.
type EntityStore interface {
	// GetDashboard returns the dashboard with the given ID, or ErrNotFound.
	GetDashboard(ctx context.Context, id int64) (model.Dashboard, error)

	// GetWorkspace returns the workspace with the given ID, or ErrNotFound.
	GetWorkspace(ctx context.Context, id int64) (model.Workspace, error)

	// ListMenuUsages returns every menu usage for the scope, each joined to
	// its menu item, as a single batched fetch. A nil WorkspaceID returns
	// dashboard-level usages only; a workspace scope returns both the
	// workspace's usages and the dashboard-level ones (the builder decides
	// which dashboard-level items merge into the workspace view).
	ListMenuUsages(ctx context.Context, scope model.Scope) ([]model.MenuEntry, error)

	// ListMenuPermissions returns all permission rows for the given menu
	// item IDs.
	ListMenuPermissions(ctx context.Context, menuIDs []int64) ([]model.MenuPermission, error)
}

// Queries implements EntityStore on database/sql, and additionally carries
// the write operations the admin surface and the seeder need.
var _ EntityStore = (*Queries)(nil)
