// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// TreeCache caches built values per scope key with at-most-one concurrent
// rebuild per key: while a rebuild is in flight, later callers for the same
// key await the in-flight result instead of starting their own. The cache is
// written only after a full successful build; a cancelled build writes
// nothing.
type TreeCache[T any] struct {
	typed *TypedCache[T]
	group singleflight.Group
}

// NewTreeCache creates a TreeCache on top of the given backend.
func NewTreeCache[T any](backend Cacher, ttl time.Duration) *TreeCache[T] {
	return &TreeCache[T]{
		typed: NewTypedCache[T](backend, ttl),
	}
}

// ScopeKey builds the cache key for a (dashboard, workspace?) scope.
func ScopeKey(dashboardID int64, workspaceID *int64) string {
	if workspaceID != nil {
		return fmt.Sprintf("tree:%d:%d", dashboardID, *workspaceID)
	}
	return fmt.Sprintf("tree:%d:-", dashboardID)
}

// GetOrBuild returns the cached value for key, or runs build to produce and
// cache it. Concurrent callers for the same key share one build. The
// caller's context cancels its wait, not a build another caller shares.
func (c *TreeCache[T]) GetOrBuild(ctx context.Context, key string, build func(context.Context) (*T, error)) (*T, error) {
	if value, ok := c.typed.Get(ctx, key); ok {
		return value, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Re-check under the flight: another caller may have just filled it.
		if value, ok := c.typed.Get(ctx, key); ok {
			return value, nil
		}

		value, err := build(ctx)
		if err != nil {
			return nil, err
		}

		// Best effort: a failed cache write still returns the built value.
		_ = c.typed.Set(ctx, key, value)
		return value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached value for a single scope key.
func (c *TreeCache[T]) Invalidate(ctx context.Context, key string) error {
	return c.typed.Delete(ctx, key)
}

// InvalidateAll drops every cached tree. Backends that support prefix
// deletion only drop tree keys; others are cleared entirely.
func (c *TreeCache[T]) InvalidateAll(ctx context.Context) error {
	type prefixDeleter interface {
		DeleteByPrefix(ctx context.Context, prefix string) error
	}
	if pd, ok := c.typed.cache.(prefixDeleter); ok {
		return pd.DeleteByPrefix(ctx, "tree:")
	}
	return c.typed.cache.Clear(ctx)
}
