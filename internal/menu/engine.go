// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/odash-go/internal/cache"
	"github.com/olegiv/odash-go/internal/feature"
	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/store"
)

// Engine runs the resolution pipeline: fetch, build, resolve, filter. Each
// run is independent and holds no shared mutable state beyond the scope
// tree cache, so runs are safe to execute concurrently.
type Engine struct {
	store    store.EntityStore
	registry *feature.Registry
	builder  *Builder
	trees    *cache.TreeCache[Forest]
	logger   *slog.Logger
}

// NewEngine wires the pipeline together. The backend caches built,
// unfiltered forests per scope; resolution and filtering always run fresh
// per request.
func NewEngine(entityStore store.EntityStore, registry *feature.Registry, backend cache.Cacher, ttl time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		store:    entityStore,
		registry: registry,
		builder:  NewBuilder(entityStore, logger),
		trees:    cache.NewTreeCache[Forest](backend, ttl),
		logger:   logger,
	}
}

// BuildMenuTree returns the built, unresolved forest for a scope, from the
// cache when possible. Concurrent cache misses for the same scope share a
// single rebuild.
func (e *Engine) BuildMenuTree(ctx context.Context, scope model.Scope) (*Forest, error) {
	key := cache.ScopeKey(scope.DashboardID, scope.WorkspaceID)
	return e.trees.GetOrBuild(ctx, key, func(ctx context.Context) (*Forest, error) {
		return e.builder.BuildForest(ctx, scope)
	})
}

// MenuTree runs the full pipeline for a principal and returns the pruned,
// resolved, ordered forest the renderer consumes.
func (e *Engine) MenuTree(ctx context.Context, scope model.Scope, principal model.Principal) ([]*ResolvedNode, error) {
	started := time.Now()
	log := e.logger.With("run_id", uuid.NewString())

	forest, err := e.BuildMenuTree(ctx, scope)
	if err != nil {
		return nil, err
	}

	resolved := ResolveForest(forest, e.registry)

	menuIDs := forest.MenuIDs()
	var rows []model.MenuPermission
	if len(menuIDs) > 0 {
		rows, err = e.store.ListMenuPermissions(ctx, menuIDs)
		if err != nil {
			return nil, fmt.Errorf("listing menu permissions: %w", err)
		}
	}

	filtered := FilterForest(resolved, principal, NewPermissionSet(rows))

	log.Debug("menu pipeline run",
		"category", "menu",
		"dashboard_id", scope.DashboardID,
		"workspace", scope.IsWorkspace(),
		"user_id", principal.UserID,
		"nodes", len(menuIDs),
		"roots", len(filtered),
		"took", time.Since(started),
	)
	return filtered, nil
}

// InvalidateScope drops the cached forest for one scope. Call it after any
// write to the scope's menu items or usages.
func (e *Engine) InvalidateScope(ctx context.Context, scope model.Scope) error {
	return e.trees.Invalidate(ctx, cache.ScopeKey(scope.DashboardID, scope.WorkspaceID))
}

// InvalidateAll drops every cached forest.
func (e *Engine) InvalidateAll(ctx context.Context) error {
	return e.trees.InvalidateAll(ctx)
}
