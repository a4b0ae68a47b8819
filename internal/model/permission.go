// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Permission types. PermissionFull implies PermissionView.
const (
	PermissionNone = "none"
	PermissionView = "view"
	PermissionFull = "full"
)

// ValidPermissionTypes contains all valid permission type values.
var ValidPermissionTypes = []string{PermissionNone, PermissionView, PermissionFull}

// MenuPermission grants or denies access to a menu item for a single
// principal. Exactly one of UserID/RoleID is set: a grant is either
// per-user or per-role.
type MenuPermission struct {
	ID             int64         `json:"id"`
	MenuID         int64         `json:"menu_id"`
	UserID         sql.NullInt64 `json:"user_id,omitempty"`
	RoleID         sql.NullInt64 `json:"role_id,omitempty"`
	PermissionType string        `json:"permission_type"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Grants reports whether the permission type allows the menu to be seen.
func (p MenuPermission) Grants() bool {
	return p.PermissionType != PermissionNone
}

// IsUserGrant reports whether the row is a per-user grant.
func (p MenuPermission) IsUserGrant() bool {
	return p.UserID.Valid
}

// Principal is the caller the permission filter evaluates: a user and the
// set of roles they hold.
type Principal struct {
	UserID  int64
	RoleIDs map[int64]struct{}
}

// NewPrincipal builds a principal from a user ID and role IDs.
func NewPrincipal(userID int64, roleIDs ...int64) Principal {
	roles := make(map[int64]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		roles[id] = struct{}{}
	}
	return Principal{UserID: userID, RoleIDs: roles}
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(roleID int64) bool {
	_, ok := p.RoleIDs[roleID]
	return ok
}

// IsValidPermissionType checks if a permission type value is valid.
func IsValidPermissionType(t string) bool {
	for _, v := range ValidPermissionTypes {
		if v == t {
			return true
		}
	}
	return false
}
