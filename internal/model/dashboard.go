// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Dashboard, Workspace, MenuItem and permission
// structures.
package model

import (
	"database/sql"
	"time"
)

// Dashboard is the root of a tenant's menu namespace. It is created on
// tenant onboarding and destroyed only by explicit deletion, which cascades
// to its workspaces and menu usages.
type Dashboard struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Description    sql.NullString `json:"description,omitempty"`
	OrganizationID sql.NullInt64  `json:"organization_id,omitempty"`
	OwnerID        int64          `json:"owner_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Workspace is a named view inside a dashboard. (Name, DashboardID) is
// unique; a workspace always belongs to exactly one dashboard.
type Workspace struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description sql.NullString `json:"description,omitempty"`
	DashboardID int64          `json:"dashboard_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Scope identifies which menu usages apply: a dashboard, optionally
// narrowed to one of its workspaces.
type Scope struct {
	DashboardID int64
	WorkspaceID *int64
}

// DashboardScope returns a scope covering the dashboard-level menu set.
func DashboardScope(dashboardID int64) Scope {
	return Scope{DashboardID: dashboardID}
}

// WorkspaceScope returns a scope narrowed to a workspace view.
func WorkspaceScope(dashboardID, workspaceID int64) Scope {
	return Scope{DashboardID: dashboardID, WorkspaceID: &workspaceID}
}

// IsWorkspace reports whether the scope is narrowed to a workspace.
func (s Scope) IsWorkspace() bool {
	return s.WorkspaceID != nil
}
