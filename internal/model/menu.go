// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Menu item types.
const (
	MenuTypeLink    = "link"
	MenuTypeSlice   = "slice"
	MenuTypeHeading = "heading"
)

// ValidMenuTypes contains all valid menu item type values.
var ValidMenuTypes = []string{MenuTypeLink, MenuTypeSlice, MenuTypeHeading}

// MenuItem is a reusable menu definition. Target is the slug used to resolve
// a feature. (Title, ParentID) is unique: a title may repeat under different
// parents but not twice under the same parent, including "no parent".
// ParentID forms a tree; cycles are rejected at creation time.
type MenuItem struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Type          string         `json:"type"`
	Icon          sql.NullString `json:"icon,omitempty"`
	Target        sql.NullString `json:"target,omitempty"`
	ParentID      sql.NullInt64  `json:"parent_id,omitempty"`
	GlobalContext bool           `json:"global_context"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// MenuUsage associates a MenuItem with a dashboard (WorkspaceID null) or a
// specific workspace within that dashboard. (MenuID, DashboardID,
// WorkspaceID) is unique; OrderIndex orders siblings within a scope, ties
// break by creation order (ascending ID).
type MenuUsage struct {
	ID          int64         `json:"id"`
	MenuID      int64         `json:"menu_id"`
	DashboardID int64         `json:"dashboard_id"`
	WorkspaceID sql.NullInt64 `json:"workspace_id,omitempty"`
	OrderIndex  int           `json:"order_index"`
	CreatedAt   time.Time     `json:"created_at"`
}

// MenuEntry is a MenuUsage joined to its MenuItem, the unit the tree
// builder consumes.
type MenuEntry struct {
	Usage MenuUsage
	Item  MenuItem
}

// IsValidMenuType checks if a menu item type value is valid.
func IsValidMenuType(t string) bool {
	for _, v := range ValidMenuTypes {
		if v == t {
			return true
		}
	}
	return false
}
