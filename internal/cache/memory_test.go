// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Get(context.Background(), "absent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired key err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"tree:1:-", "tree:1:5", "other"} {
		if err := c.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.DeleteByPrefix(ctx, "tree:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	if _, err := c.Get(ctx, "tree:1:-"); !errors.Is(err, ErrCacheMiss) {
		t.Error("tree:1:- survived prefix delete")
	}
	if _, err := c.Get(ctx, "other"); err != nil {
		t.Errorf("other dropped by prefix delete: %v", err)
	}
}

func TestMemoryCacheMaxSizeEviction(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 2})
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
	}

	stats := c.Stats()
	if stats.Items != 2 {
		t.Errorf("items = %d, want 2 after eviction", stats.Items)
	}
}

func TestMemoryCacheRemoveExpired(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Set(ctx, "stale", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "fresh", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if removed := c.RemoveExpired(); removed != 1 {
		t.Errorf("RemoveExpired = %d, want 1", removed)
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close err = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "absent")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 set", stats)
	}
}

func TestTypedCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	tc := NewTypedCache[payload](c, time.Minute)

	if err := tc.Set(ctx, "p", &payload{Name: "menus", Count: 3}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := tc.Get(ctx, "p")
	if !ok {
		t.Fatal("Get: miss, want hit")
	}
	if got.Name != "menus" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}

	if _, ok := tc.Get(ctx, "absent"); ok {
		t.Error("hit on absent key")
	}
}
