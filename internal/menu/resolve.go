// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"github.com/olegiv/odash-go/internal/feature"
	"github.com/olegiv/odash-go/internal/model"
)

// ResolvedNode is what the renderer consumes: a menu node annotated with
// the feature bound to its target. URL is taken from the resolved manifest;
// link items without a manifest fall back to their raw target. Feature is
// nil for nodes that carry no target at all (headings).
type ResolvedNode struct {
	ID       int64             `json:"id"`
	Title    string            `json:"title"`
	Type     string            `json:"type"`
	Icon     string            `json:"icon,omitempty"`
	URL      string            `json:"url,omitempty"`
	Feature  *feature.Resolved `json:"feature,omitempty"`
	Children []*ResolvedNode   `json:"children,omitempty"`
}

// ResolveForest annotates every node in the forest with its feature,
// preserving structure and order. Resolution is pure: a target missing from
// both catalogs yields an unresolved marker, never an error.
func ResolveForest(forest *Forest, registry *feature.Registry) []*ResolvedNode {
	return resolveNodes(forest.Roots, registry)
}

func resolveNodes(nodes []*Node, registry *feature.Registry) []*ResolvedNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*ResolvedNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, resolveNode(n, registry))
	}
	return out
}

func resolveNode(n *Node, registry *feature.Registry) *ResolvedNode {
	item := n.Entry.Item
	rn := &ResolvedNode{
		ID:       item.ID,
		Title:    item.Title,
		Type:     item.Type,
		Icon:     item.Icon.String,
		Children: resolveNodes(n.Children, registry),
	}
	if item.Target.Valid {
		res := registry.Resolve(item.Target.String)
		rn.Feature = &res
		if res.Found() {
			rn.URL = res.Manifest.URL
			if rn.Icon == "" {
				rn.Icon = res.Manifest.Icon
			}
		} else if item.Type == model.MenuTypeLink {
			rn.URL = item.Target.String
		}
	}
	return rn
}
