// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath   string `env:"ODASH_DB_PATH" envDefault:"./data/odash.db"`
	Env      string `env:"ODASH_ENV" envDefault:"development"`
	LogLevel string `env:"ODASH_LOG_LEVEL" envDefault:"info"`

	// Feature catalog configuration
	ManifestDir string `env:"ODASH_MANIFEST_DIR" envDefault:"./manifests"`

	// Cache configuration
	RedisURL     string `env:"ODASH_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"ODASH_CACHE_PREFIX" envDefault:"odash:"`  // Redis key prefix
	CacheTTL     int    `env:"ODASH_CACHE_TTL" envDefault:"60"`         // Menu tree cache TTL in seconds
	CacheMaxSize int    `env:"ODASH_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Seeding configuration
	DoSeed bool `env:"ODASH_DO_SEED" envDefault:"false"` // Enable database seeding
	// DemoOpenGrants makes the demo seed grant every seeded user full access
	// to every menu. Demo convenience only; production visibility is decided
	// by the permission filter's default-open rule.
	DemoOpenGrants bool `env:"ODASH_DEMO_OPEN_GRANTS" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SlogLevel maps the configured log level string onto a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("ODASH_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	return cfg, nil
}
