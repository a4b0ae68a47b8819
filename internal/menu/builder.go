// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menu implements the menu resolution pipeline: building the
// ordered forest for a scope, binding nodes to feature manifests, and
// pruning the result per principal.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/store"
)

// Node is one entry in the built, unresolved forest. Children are sorted by
// order index, ties broken by usage ID.
type Node struct {
	Entry    model.MenuEntry `json:"entry"`
	Children []*Node         `json:"children,omitempty"`
}

// Forest is the built menu tree for one scope, before feature resolution
// and permission filtering. It is the unit the scope cache stores.
type Forest struct {
	Scope model.Scope `json:"scope"`
	Roots []*Node     `json:"roots"`
}

// MenuIDs returns the distinct menu item IDs present in the forest, in
// visit order.
func (f *Forest) MenuIDs() []int64 {
	var ids []int64
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			ids = append(ids, n.Entry.Item.ID)
			walk(n.Children)
		}
	}
	walk(f.Roots)
	return ids
}

// Builder assembles forests from flat usage records.
type Builder struct {
	store  store.EntityStore
	logger *slog.Logger
}

// NewBuilder creates a builder on top of an entity store.
func NewBuilder(entityStore store.EntityStore, logger *slog.Logger) *Builder {
	return &Builder{store: entityStore, logger: logger}
}

// BuildForest validates the scope, fetches its usage records in one batch
// and assembles the ordered forest. On malformed data (duplicate usages,
// orphaned parents, parent cycles) it degrades gracefully and logs a
// warning; only unknown identifiers fail.
func (b *Builder) BuildForest(ctx context.Context, scope model.Scope) (*Forest, error) {
	if err := b.validateScope(ctx, scope); err != nil {
		return nil, err
	}

	entries, err := b.store.ListMenuUsages(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing menu usages: %w", err)
	}

	entries = b.mergeScope(scope, entries)
	entries = b.dedupe(scope, entries)

	forest := &Forest{Scope: scope}
	forest.Roots = b.link(scope, entries)
	sortNodes(forest.Roots)
	return forest, nil
}

// validateScope confirms the dashboard exists and, for a workspace scope,
// that the workspace exists and belongs to it.
func (b *Builder) validateScope(ctx context.Context, scope model.Scope) error {
	if _, err := b.store.GetDashboard(ctx, scope.DashboardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("dashboard %d: %w", scope.DashboardID, ErrDashboardNotFound)
		}
		return fmt.Errorf("loading dashboard %d: %w", scope.DashboardID, err)
	}

	if !scope.IsWorkspace() {
		return nil
	}

	ws, err := b.store.GetWorkspace(ctx, *scope.WorkspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("workspace %d: %w", *scope.WorkspaceID, ErrWorkspaceNotFound)
		}
		return fmt.Errorf("loading workspace %d: %w", *scope.WorkspaceID, err)
	}
	if ws.DashboardID != scope.DashboardID {
		return fmt.Errorf("workspace %d belongs to dashboard %d, not %d: %w",
			ws.ID, ws.DashboardID, scope.DashboardID, ErrScopeMismatch)
	}
	return nil
}

// mergeScope reduces the fetched entries to the ones that belong in the
// scope's view. A dashboard scope passes through unchanged. A workspace
// scope keeps its own usages plus the dashboard-level usages of global
// context items; a workspace usage of a menu overrides the dashboard-level
// one for the same menu.
func (b *Builder) mergeScope(scope model.Scope, entries []model.MenuEntry) []model.MenuEntry {
	if !scope.IsWorkspace() {
		return entries
	}

	inWorkspace := make(map[int64]struct{})
	for _, e := range entries {
		if e.Usage.WorkspaceID.Valid {
			inWorkspace[e.Usage.MenuID] = struct{}{}
		}
	}

	merged := entries[:0]
	for _, e := range entries {
		switch {
		case e.Usage.WorkspaceID.Valid:
			merged = append(merged, e)
		case e.Item.GlobalContext:
			if _, overridden := inWorkspace[e.Usage.MenuID]; !overridden {
				merged = append(merged, e)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Usage.OrderIndex != merged[j].Usage.OrderIndex {
			return merged[i].Usage.OrderIndex < merged[j].Usage.OrderIndex
		}
		return merged[i].Usage.ID < merged[j].Usage.ID
	})
	return merged
}

// dedupe drops repeated menu IDs, keeping the first occurrence in the
// (order index, usage ID) order the entries arrive in. Duplicates violate
// the usage uniqueness constraint and can only come from broken seed or
// import data, so each one is logged.
func (b *Builder) dedupe(scope model.Scope, entries []model.MenuEntry) []model.MenuEntry {
	seen := make(map[int64]int64, len(entries)) // menu ID -> kept usage ID
	out := entries[:0]
	for _, e := range entries {
		if keptUsage, dup := seen[e.Usage.MenuID]; dup {
			b.logger.Warn("duplicate menu usage in scope, dropping",
				"category", "menu",
				"dashboard_id", scope.DashboardID,
				"menu_id", e.Usage.MenuID,
				"kept_usage_id", keptUsage,
				"dropped_usage_id", e.Usage.ID,
			)
			continue
		}
		seen[e.Usage.MenuID] = e.Usage.ID
		out = append(out, e)
	}
	return out
}

// link attaches each entry under its parent when the parent is part of the
// fetched set, promotes the rest to roots, and breaks parent cycles by
// promoting the first entry of each cycle in entry order.
func (b *Builder) link(scope model.Scope, entries []model.MenuEntry) []*Node {
	nodes := make(map[int64]*Node, len(entries)) // by menu item ID
	ordered := make([]*Node, 0, len(entries))
	for _, e := range entries {
		n := &Node{Entry: e}
		nodes[e.Item.ID] = n
		ordered = append(ordered, n)
	}

	parentOf := make(map[*Node]*Node)
	var roots []*Node
	for _, n := range ordered {
		pid := n.Entry.Item.ParentID
		if !pid.Valid {
			roots = append(roots, n)
			continue
		}
		if pid.Int64 == n.Entry.Item.ID {
			roots = append(roots, n)
			b.logger.Warn("menu item is its own parent, promoting to root",
				"category", "menu",
				"dashboard_id", scope.DashboardID,
				"menu_id", n.Entry.Item.ID,
			)
			continue
		}
		parent, present := nodes[pid.Int64]
		if !present {
			// The parent lives outside this scope's join. Legitimate for
			// cross-scope items; the node simply surfaces at the top.
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
		parentOf[n] = parent
	}

	// Everything not reachable from a root sits in a parent cycle. Promote
	// the first unreached node in entry order, then rescan; each promotion
	// breaks one cycle.
	reached := make(map[*Node]bool, len(ordered))
	var mark func(n *Node)
	mark = func(n *Node) {
		if reached[n] {
			return
		}
		reached[n] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	for _, n := range ordered {
		if reached[n] {
			continue
		}
		parent := parentOf[n]
		parent.Children = removeChild(parent.Children, n)
		roots = append(roots, n)
		b.logger.Warn("parent cycle in menu items, promoting to root",
			"category", "menu",
			"dashboard_id", scope.DashboardID,
			"menu_id", n.Entry.Item.ID,
			"parent_id", parent.Entry.Item.ID,
		)
		mark(n)
	}
	return roots
}

func removeChild(children []*Node, target *Node) []*Node {
	for i, c := range children {
		if c == target {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

// sortNodes orders siblings by order index ascending, ties broken by the
// originating usage ID, recursively.
func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Entry.Usage, nodes[j].Entry.Usage
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.ID < b.ID
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
