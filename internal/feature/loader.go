// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feature

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olegiv/odash-go/internal/model"
)

// Loader supplies the registry catalogs. The static catalog ships with the
// binary; the dynamic catalog is discovered at startup (installed modules,
// manifest files on disk).
type Loader interface {
	LoadStaticManifests(ctx context.Context) ([]model.FeatureManifest, error)
	LoadDynamicManifests(ctx context.Context) ([]model.FeatureManifest, error)
}

// CatalogLoader is the default loader: a compiled-in static catalog plus an
// optional directory of JSON manifest files forming the dynamic catalog.
type CatalogLoader struct {
	Static     []model.FeatureManifest
	DynamicDir string
}

func (l *CatalogLoader) LoadStaticManifests(_ context.Context) ([]model.FeatureManifest, error) {
	return l.Static, nil
}

// LoadDynamicManifests reads every *.json file in DynamicDir as a single
// manifest. A missing directory yields an empty catalog; a malformed file
// is an error, not a skip.
func (l *CatalogLoader) LoadDynamicManifests(ctx context.Context) ([]model.FeatureManifest, error) {
	if l.DynamicDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(l.DynamicDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest dir %s: %w", l.DynamicDir, err)
	}

	var manifests []model.FeatureManifest
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(l.DynamicDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading manifest %s: %w", path, err)
		}
		var m model.FeatureManifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
		m.FeatureType = model.FeatureDynamic
		manifests = append(manifests, m)
	}
	return manifests, nil
}
