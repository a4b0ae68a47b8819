// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command odash boots the menu resolution engine against its SQLite store,
// runs a demo resolution for the seeded dashboard and serves as the host
// process for the maintenance scheduler.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/odash-go/internal/cache"
	"github.com/olegiv/odash-go/internal/config"
	"github.com/olegiv/odash-go/internal/feature"
	"github.com/olegiv/odash-go/internal/logging"
	"github.com/olegiv/odash-go/internal/menu"
	"github.com/olegiv/odash-go/internal/model"
	"github.com/olegiv/odash-go/internal/scheduler"
	"github.com/olegiv/odash-go/internal/store"
	"github.com/olegiv/odash-go/internal/version"
)

// Build-time version information, injected via ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// staticCatalog is the compiled-in feature catalog. Dynamic manifests are
// discovered from the manifest directory at startup.
var staticCatalog = []model.FeatureManifest{
	{Title: "Overview", URL: "/overview", Icon: "layout-dashboard", Description: "Landing view with tenant summary"},
	{Title: "Tasks", URL: "/tasks", Icon: "check-square", Description: "Task list and assignments"},
	{Title: "Settings", URL: "/settings", Icon: "settings", Description: "Tenant configuration"},
	{Title: "Help", URL: "/help", Icon: "circle-help", Description: "Documentation and support"},
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	info := version.Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	if *showVersion {
		fmt.Println("odash", info.String())
		return
	}

	if err := run(info); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Optional .env for local development
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	logger.Info("starting odash", "version", info.String(), "env", cfg.Env)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// With the database up, route WARN and above into the event log too.
	logger = slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}), db))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		if err := store.SeedDemo(ctx, db, store.SeedDemoOptions{
			Enabled:    cfg.IsDevelopment(),
			OpenGrants: cfg.DemoOpenGrants,
		}); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// Feature registry: compiled-in static catalog plus dynamic manifests
	// from disk. A duplicate URL inside a catalog is fatal here, before any
	// request is served.
	registry := feature.NewRegistry(logger)
	if err := registry.LoadFrom(ctx, &feature.CatalogLoader{
		Static:     staticCatalog,
		DynamicDir: cfg.ManifestDir,
	}); err != nil {
		return fmt.Errorf("loading feature registry: %w", err)
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.DefaultTTL = time.Duration(cfg.CacheTTL) * time.Second
	cacheCfg.MaxSize = cfg.CacheMaxSize
	cacheCfg.FallbackToMemory = true
	if cfg.UseRedisCache() {
		cacheCfg.Type = "redis"
		cacheCfg.RedisURL = cfg.RedisURL
		cacheCfg.Prefix = cfg.CachePrefix
	}
	backend, err := cache.NewCache(cacheCfg)
	if err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}
	defer func() { _ = backend.Close() }()

	engine := menu.NewEngine(store.New(db), registry, backend, cacheCfg.DefaultTTL, logger)

	schedOpts := scheduler.Options{EventRetention: 30 * 24 * time.Hour}
	if sweeper, ok := backend.(scheduler.Sweeper); ok {
		schedOpts.Sweeper = sweeper
	}
	sched := scheduler.New(db, logger, schedOpts)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	if err := demoRun(ctx, store.New(db), engine, logger); err != nil {
		return err
	}

	logger.Info("odash ready, waiting for shutdown signal")
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// demoRun resolves the default dashboard's menu for its owner and prints
// the tree, a quick end-to-end check of the boot wiring. Skipped
// when the default dashboard has not been seeded.
func demoRun(ctx context.Context, queries *store.Queries, engine *menu.Engine, logger *slog.Logger) error {
	dash, err := queries.GetDashboardByName(ctx, store.DefaultDashboardName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("no default dashboard, skipping demo resolution")
			return nil
		}
		return fmt.Errorf("loading default dashboard: %w", err)
	}

	tree, err := engine.MenuTree(ctx, model.DashboardScope(dash.ID), model.NewPrincipal(store.DefaultOwnerID))
	if err != nil {
		return fmt.Errorf("resolving demo menu: %w", err)
	}

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding demo menu: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
