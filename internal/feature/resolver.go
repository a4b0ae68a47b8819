// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feature

import "github.com/olegiv/odash-go/internal/model"

// Origin records which catalog satisfied a resolution.
type Origin string

const (
	OriginStatic     Origin = "static"
	OriginDynamic    Origin = "dynamic"
	OriginUnresolved Origin = "unresolved"
)

// Resolved is the outcome of binding a menu target to a feature manifest.
// When Origin is OriginUnresolved the Manifest is zero and Target carries
// the slug that failed to bind, so callers can render a placeholder.
type Resolved struct {
	Target   string                `json:"target"`
	Origin   Origin                `json:"origin"`
	Manifest model.FeatureManifest `json:"manifest,omitzero"`
}

// Found reports whether the target bound to a manifest in either catalog.
func (r Resolved) Found() bool {
	return r.Origin != OriginUnresolved
}

// Resolve binds a target slug to a manifest. The static catalog wins over
// the dynamic one; a miss in both yields an unresolved marker, never an
// error. Resolution is a pure lookup: same registry, same target, same
// answer.
func (r *Registry) Resolve(target string) Resolved {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.static[target]; ok {
		return Resolved{Target: target, Origin: OriginStatic, Manifest: m}
	}
	if m, ok := r.dynamic[target]; ok {
		return Resolved{Target: target, Origin: OriginDynamic, Manifest: m}
	}
	return Resolved{Target: target, Origin: OriginUnresolved}
}
