// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import "github.com/olegiv/odash-go/internal/model"

// PermissionSet indexes permission rows by menu item ID for the filter.
type PermissionSet map[int64][]model.MenuPermission

// NewPermissionSet groups rows by menu ID.
func NewPermissionSet(rows []model.MenuPermission) PermissionSet {
	set := make(PermissionSet, len(rows))
	for _, row := range rows {
		set[row.MenuID] = append(set[row.MenuID], row)
	}
	return set
}

// FilterForest prunes nodes the principal may not see. Pruning is
// structural: a hidden node takes its whole subtree with it, while a
// visible node with no visible children stays. The input is not modified;
// the returned nodes are fresh, so filtered results are never shared
// between principals. Filtering an already filtered forest with the same
// principal returns an identical result.
func FilterForest(nodes []*ResolvedNode, principal model.Principal, perms PermissionSet) []*ResolvedNode {
	var out []*ResolvedNode
	for _, n := range nodes {
		if !visible(n.ID, principal, perms) {
			continue
		}
		kept := *n
		kept.Children = FilterForest(n.Children, principal, perms)
		out = append(out, &kept)
	}
	return out
}

// visible decides whether the principal may see a menu item:
//   - no permission rows at all: visible (default-open)
//   - rows for the principal's user ID exist: those rows alone decide,
//     role rows are ignored (explicit per-user override)
//   - otherwise role rows matching the principal's roles decide
//
// In either deciding set, any grant other than "none" makes the item
// visible; rows that match no part of the principal hide it.
func visible(menuID int64, principal model.Principal, perms PermissionSet) bool {
	rows := perms[menuID]
	if len(rows) == 0 {
		return true
	}

	userRows := false
	for _, row := range rows {
		if row.IsUserGrant() && row.UserID.Int64 == principal.UserID {
			userRows = true
			if row.Grants() {
				return true
			}
		}
	}
	if userRows {
		return false
	}

	for _, row := range rows {
		if row.RoleID.Valid && principal.HasRole(row.RoleID.Int64) && row.Grants() {
			return true
		}
	}
	return false
}
