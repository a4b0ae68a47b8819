// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/odash-go/internal/model"
)

// ErrMenuCycle is returned when a menu item parent assignment would form a cycle.
var ErrMenuCycle = errors.New("menu item parent cycle")

// maxMenuDepth bounds the parent-chain walk during cycle checks.
const maxMenuDepth = 64

// DBTX is the subset of database/sql methods the query layer needs,
// satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the oDash tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// GetDashboard returns the dashboard with the given ID.
func (q *Queries) GetDashboard(ctx context.Context, id int64) (model.Dashboard, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, description, organization_id, owner_id, created_at, updated_at
		FROM dashboards WHERE id = ?`, id)

	var d model.Dashboard
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.OrganizationID, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dashboard{}, fmt.Errorf("dashboard %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("getting dashboard %d: %w", id, err)
	}
	return d, nil
}

// GetDashboardByName returns the dashboard with the given name.
func (q *Queries) GetDashboardByName(ctx context.Context, name string) (model.Dashboard, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, description, organization_id, owner_id, created_at, updated_at
		FROM dashboards WHERE name = ?`, name)

	var d model.Dashboard
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.OrganizationID, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dashboard{}, fmt.Errorf("dashboard %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("getting dashboard %q: %w", name, err)
	}
	return d, nil
}

// GetWorkspace returns the workspace with the given ID.
func (q *Queries) GetWorkspace(ctx context.Context, id int64) (model.Workspace, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, description, dashboard_id, created_at, updated_at
		FROM workspaces WHERE id = ?`, id)

	var w model.Workspace
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.DashboardID, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Workspace{}, fmt.Errorf("workspace %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Workspace{}, fmt.Errorf("getting workspace %d: %w", id, err)
	}
	return w, nil
}

// ListMenuUsages returns usages joined to their menu items for a scope.
// Dashboard scopes return dashboard-level rows only; workspace scopes return
// the workspace's rows plus the dashboard-level rows, ordered by order_index
// then usage ID.
func (q *Queries) ListMenuUsages(ctx context.Context, scope model.Scope) ([]model.MenuEntry, error) {
	query := `
		SELECT u.id, u.menu_id, u.dashboard_id, u.workspace_id, u.order_index, u.created_at,
		       m.id, m.title, m.type, m.icon, m.target, m.parent_id, m.global_context, m.created_at, m.updated_at
		FROM menu_usages u
		JOIN menu_items m ON m.id = u.menu_id
		WHERE u.dashboard_id = ?`
	args := []any{scope.DashboardID}

	if scope.WorkspaceID != nil {
		query += ` AND (u.workspace_id IS NULL OR u.workspace_id = ?)`
		args = append(args, *scope.WorkspaceID)
	} else {
		query += ` AND u.workspace_id IS NULL`
	}
	query += ` ORDER BY u.order_index, u.id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing menu usages: %w", err)
	}
	defer rows.Close()

	var entries []model.MenuEntry
	for rows.Next() {
		var e model.MenuEntry
		if err := rows.Scan(
			&e.Usage.ID, &e.Usage.MenuID, &e.Usage.DashboardID, &e.Usage.WorkspaceID,
			&e.Usage.OrderIndex, &e.Usage.CreatedAt,
			&e.Item.ID, &e.Item.Title, &e.Item.Type, &e.Item.Icon, &e.Item.Target,
			&e.Item.ParentID, &e.Item.GlobalContext, &e.Item.CreatedAt, &e.Item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning menu usage: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListMenuPermissions returns all permission rows for the given menu item IDs.
func (q *Queries) ListMenuPermissions(ctx context.Context, menuIDs []int64) ([]model.MenuPermission, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(menuIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(menuIDs))
	for i, id := range menuIDs {
		args[i] = id
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT id, menu_id, user_id, role_id, permission_type, created_at
		FROM menu_permissions WHERE menu_id IN (`+placeholders+`)
		ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing menu permissions: %w", err)
	}
	defer rows.Close()

	var perms []model.MenuPermission
	for rows.Next() {
		var p model.MenuPermission
		if err := rows.Scan(&p.ID, &p.MenuID, &p.UserID, &p.RoleID, &p.PermissionType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning menu permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// CreateDashboardParams holds the fields for CreateDashboard.
type CreateDashboardParams struct {
	Name           string
	Description    sql.NullString
	OrganizationID sql.NullInt64
	OwnerID        int64
}

// CreateDashboard inserts a new dashboard.
func (q *Queries) CreateDashboard(ctx context.Context, arg CreateDashboardParams) (model.Dashboard, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO dashboards (name, description, organization_id, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Description, arg.OrganizationID, arg.OwnerID, now, now)
	if err != nil {
		return model.Dashboard{}, fmt.Errorf("creating dashboard %q: %w", arg.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Dashboard{}, err
	}
	return model.Dashboard{
		ID: id, Name: arg.Name, Description: arg.Description,
		OrganizationID: arg.OrganizationID, OwnerID: arg.OwnerID,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// DeleteDashboard removes a dashboard. Workspaces and usages cascade.
func (q *Queries) DeleteDashboard(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dashboard %d: %w", id, err)
	}
	return nil
}

// CreateWorkspaceParams holds the fields for CreateWorkspace.
type CreateWorkspaceParams struct {
	Name        string
	Description sql.NullString
	DashboardID int64
}

// CreateWorkspace inserts a new workspace under a dashboard.
// (Name, DashboardID) uniqueness is enforced by the schema.
func (q *Queries) CreateWorkspace(ctx context.Context, arg CreateWorkspaceParams) (model.Workspace, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO workspaces (name, description, dashboard_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.Name, arg.Description, arg.DashboardID, now, now)
	if err != nil {
		return model.Workspace{}, fmt.Errorf("creating workspace %q: %w", arg.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Workspace{}, err
	}
	return model.Workspace{
		ID: id, Name: arg.Name, Description: arg.Description,
		DashboardID: arg.DashboardID, CreatedAt: now, UpdatedAt: now,
	}, nil
}

// CreateMenuItemParams holds the fields for CreateMenuItem.
type CreateMenuItemParams struct {
	Title         string
	Type          string
	Icon          sql.NullString
	Target        sql.NullString
	ParentID      sql.NullInt64
	GlobalContext bool
}

// CreateMenuItem inserts a new menu item. Parent cycles are rejected here,
// not tolerated at read time; (Title, ParentID) uniqueness is enforced by
// the schema.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (model.MenuItem, error) {
	if !model.IsValidMenuType(arg.Type) {
		return model.MenuItem{}, fmt.Errorf("creating menu item %q: invalid type %q", arg.Title, arg.Type)
	}
	if arg.ParentID.Valid {
		if err := q.checkParentChain(ctx, 0, arg.ParentID.Int64); err != nil {
			return model.MenuItem{}, fmt.Errorf("creating menu item %q: %w", arg.Title, err)
		}
	}

	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_items (title, type, icon, target, parent_id, global_context, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Type, arg.Icon, arg.Target, arg.ParentID, arg.GlobalContext, now, now)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("creating menu item %q: %w", arg.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuItem{}, err
	}
	return model.MenuItem{
		ID: id, Title: arg.Title, Type: arg.Type, Icon: arg.Icon, Target: arg.Target,
		ParentID: arg.ParentID, GlobalContext: arg.GlobalContext,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// UpdateMenuItemParent reassigns a menu item's parent, rejecting cycles.
func (q *Queries) UpdateMenuItemParent(ctx context.Context, id int64, parentID sql.NullInt64) error {
	if parentID.Valid {
		if parentID.Int64 == id {
			return fmt.Errorf("menu item %d: %w", id, ErrMenuCycle)
		}
		if err := q.checkParentChain(ctx, id, parentID.Int64); err != nil {
			return fmt.Errorf("menu item %d: %w", id, err)
		}
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET parent_id = ?, updated_at = ? WHERE id = ?`,
		parentID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating menu item %d parent: %w", id, err)
	}
	return nil
}

// checkParentChain walks up from parentID and fails if it reaches self or
// exceeds the depth bound.
func (q *Queries) checkParentChain(ctx context.Context, self, parentID int64) error {
	current := parentID
	for depth := 0; depth < maxMenuDepth; depth++ {
		var next sql.NullInt64
		err := q.db.QueryRowContext(ctx,
			`SELECT parent_id FROM menu_items WHERE id = ?`, current).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("parent menu item %d: %w", current, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("walking parent chain: %w", err)
		}
		if !next.Valid {
			return nil
		}
		if next.Int64 == self || next.Int64 == parentID {
			return ErrMenuCycle
		}
		current = next.Int64
	}
	return ErrMenuCycle
}

// CreateMenuUsageParams holds the fields for CreateMenuUsage.
type CreateMenuUsageParams struct {
	MenuID      int64
	DashboardID int64
	WorkspaceID sql.NullInt64
	OrderIndex  int
}

// CreateMenuUsage attaches a menu item to a scope. The workspace, when set,
// must belong to the dashboard; (MenuID, DashboardID, WorkspaceID)
// uniqueness is enforced by the schema.
func (q *Queries) CreateMenuUsage(ctx context.Context, arg CreateMenuUsageParams) (model.MenuUsage, error) {
	if arg.WorkspaceID.Valid {
		ws, err := q.GetWorkspace(ctx, arg.WorkspaceID.Int64)
		if err != nil {
			return model.MenuUsage{}, fmt.Errorf("creating menu usage: %w", err)
		}
		if ws.DashboardID != arg.DashboardID {
			return model.MenuUsage{}, fmt.Errorf(
				"creating menu usage: workspace %d does not belong to dashboard %d",
				arg.WorkspaceID.Int64, arg.DashboardID)
		}
	}

	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_usages (menu_id, dashboard_id, workspace_id, order_index, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.MenuID, arg.DashboardID, arg.WorkspaceID, arg.OrderIndex, now)
	if err != nil {
		return model.MenuUsage{}, fmt.Errorf("creating menu usage: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuUsage{}, err
	}
	return model.MenuUsage{
		ID: id, MenuID: arg.MenuID, DashboardID: arg.DashboardID,
		WorkspaceID: arg.WorkspaceID, OrderIndex: arg.OrderIndex, CreatedAt: now,
	}, nil
}

// DeleteMenuUsage removes a usage row.
func (q *Queries) DeleteMenuUsage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_usages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting menu usage %d: %w", id, err)
	}
	return nil
}

// CreateMenuPermissionParams holds the fields for CreateMenuPermission.
type CreateMenuPermissionParams struct {
	MenuID         int64
	UserID         sql.NullInt64
	RoleID         sql.NullInt64
	PermissionType string
}

// CreateMenuPermission inserts a permission grant. Exactly one of
// UserID/RoleID must be set.
func (q *Queries) CreateMenuPermission(ctx context.Context, arg CreateMenuPermissionParams) (model.MenuPermission, error) {
	if arg.UserID.Valid == arg.RoleID.Valid {
		return model.MenuPermission{}, fmt.Errorf(
			"creating menu permission: exactly one of user and role must be set")
	}
	if !model.IsValidPermissionType(arg.PermissionType) {
		return model.MenuPermission{}, fmt.Errorf(
			"creating menu permission: invalid permission type %q", arg.PermissionType)
	}

	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_permissions (menu_id, user_id, role_id, permission_type, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.MenuID, arg.UserID, arg.RoleID, arg.PermissionType, now)
	if err != nil {
		return model.MenuPermission{}, fmt.Errorf("creating menu permission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuPermission{}, err
	}
	return model.MenuPermission{
		ID: id, MenuID: arg.MenuID, UserID: arg.UserID, RoleID: arg.RoleID,
		PermissionType: arg.PermissionType, CreatedAt: now,
	}, nil
}

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID: id, Level: arg.Level, Category: arg.Category, Message: arg.Message,
		UserID: arg.UserID, Metadata: arg.Metadata, CreatedAt: arg.CreatedAt,
	}, nil
}

// ListRecentEvents returns the most recent event log entries.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, user_id, metadata, created_at
		FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEventsBefore removes event log entries older than the cutoff.
// Returns the number of rows removed.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return res.RowsAffected()
}

// CountDashboards returns the number of dashboards.
func (q *Queries) CountDashboards(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dashboards`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting dashboards: %w", err)
	}
	return count, nil
}
