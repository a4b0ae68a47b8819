// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package feature provides the slice catalog for oDash: a registry of
// feature manifests assembled once at process start, and the resolver that
// binds menu targets to manifests.
package feature

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/olegiv/odash-go/internal/model"
)

// ConfigurationError reports an inconsistent catalog at startup: two
// manifests in the same catalog claiming the same URL. It is fatal at boot;
// the process must not serve requests with an inconsistent registry.
type ConfigurationError struct {
	Catalog string
	URL     string
	Titles  []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("feature catalog %q: duplicate url %q (manifests: %s)",
		e.Catalog, e.URL, strings.Join(e.Titles, ", "))
}

// Registry is the catalog of available feature manifests. It is built once
// at process start from the static and dynamic catalogs and carries no
// mutation API afterwards; registration is a load-time concern of the
// module loader.
type Registry struct {
	logger *slog.Logger

	mu      sync.RWMutex
	static  map[string]model.FeatureManifest // key: target slug
	dynamic map[string]model.FeatureManifest
	order   []model.FeatureManifest // listing order: static first, load order
	loaded  bool
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:  logger,
		static:  make(map[string]model.FeatureManifest),
		dynamic: make(map[string]model.FeatureManifest),
	}
}

// Slug derives the target slug a manifest binds to from its URL:
// "/reports/weekly" binds to target "reports/weekly".
func Slug(m model.FeatureManifest) string {
	return strings.Trim(m.URL, "/")
}

// Load populates the registry from the two catalogs. Within each catalog
// the manifest URL must be unique; a collision is a ConfigurationError.
// Load may be called once.
func (r *Registry) Load(static, dynamic []model.FeatureManifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return fmt.Errorf("feature registry already loaded")
	}

	if err := r.loadCatalog("static", model.FeatureStatic, static, r.static); err != nil {
		return err
	}
	if err := r.loadCatalog("dynamic", model.FeatureDynamic, dynamic, r.dynamic); err != nil {
		return err
	}

	r.loaded = true
	r.logger.Info("feature registry loaded",
		"static", len(r.static),
		"dynamic", len(r.dynamic),
	)
	return nil
}

// LoadFrom populates the registry using a manifest loader.
func (r *Registry) LoadFrom(ctx context.Context, loader Loader) error {
	static, err := loader.LoadStaticManifests(ctx)
	if err != nil {
		return fmt.Errorf("loading static manifests: %w", err)
	}
	dynamic, err := loader.LoadDynamicManifests(ctx)
	if err != nil {
		return fmt.Errorf("loading dynamic manifests: %w", err)
	}
	return r.Load(static, dynamic)
}

// loadCatalog validates and indexes one catalog. Caller holds the lock.
func (r *Registry) loadCatalog(name, featureType string, manifests []model.FeatureManifest, index map[string]model.FeatureManifest) error {
	seen := make(map[string]string, len(manifests)) // url -> title
	for _, m := range manifests {
		m.FeatureType = featureType
		if err := m.Validate(); err != nil {
			return fmt.Errorf("catalog %q: %w", name, err)
		}
		if prev, dup := seen[m.URL]; dup {
			return &ConfigurationError{
				Catalog: name,
				URL:     m.URL,
				Titles:  []string{prev, m.Title},
			}
		}
		seen[m.URL] = m.Title

		index[Slug(m)] = m
		r.order = append(r.order, m)
		r.logger.Debug("feature registered", "catalog", name, "title", m.Title, "url", m.URL)
	}
	return nil
}

// Find returns the manifest bound to a target, static catalog first.
func (r *Registry) Find(target string) (model.FeatureManifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.static[target]; ok {
		return m, true
	}
	if m, ok := r.dynamic[target]; ok {
		return m, true
	}
	return model.FeatureManifest{}, false
}

// List returns all registered manifests, static catalog first, in load order.
func (r *Registry) List() []model.FeatureManifest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FeatureManifest, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered manifests.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
