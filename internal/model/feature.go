// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// Feature types. Static features are always available and unconditionally
// visible; dynamic features are conditionally available and subject to the
// permission filter at the feature level.
const (
	FeatureStatic  = "static"
	FeatureDynamic = "dynamic"
)

// FeatureManifest describes a routable slice implementation available to
// bind to a MenuItem target. Manifests are not persisted; they are
// assembled at process start from the static and dynamic catalogs.
type FeatureManifest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	FeatureType string `json:"feature_type"`
}

// Validate checks that a manifest carries the fields the registry requires.
func (m FeatureManifest) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("feature manifest: title is required")
	}
	if m.URL == "" {
		return fmt.Errorf("feature manifest %q: url is required", m.Title)
	}
	if m.FeatureType != FeatureStatic && m.FeatureType != FeatureDynamic {
		return fmt.Errorf("feature manifest %q: invalid feature type %q", m.Title, m.FeatureType)
	}
	return nil
}
