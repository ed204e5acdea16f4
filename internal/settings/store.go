// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rivaas.dev/pluginhost/internal/hostlog"
)

// DefaultFilePermissions matches the dumper used across the host's
// other persisted artifacts.
const DefaultFilePermissions = 0o644

// Store is the single JSON file backing Settings. It never caches: the
// file on disk is the source of truth, re-read on every Load.
type Store struct {
	path string
	log  hostlog.Logger
}

// NewStore builds a Store rooted at path, e.g. "./admin/config/features.json".
func NewStore(path string, log hostlog.Logger) *Store {
	if log == nil {
		log = hostlog.Default()
	}
	return &Store{path: path, log: log}
}

// Load reads and parses the settings file. On any error — missing
// file, malformed JSON — it returns the documented defaults rather
// than failing the caller; every error except a missing file is logged.
func (s *Store) Load() *Settings {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("settings file unreadable, using defaults", "path", s.path, "error", err)
		}
		return Default()
	}
	var rec Settings
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn("settings file malformed, using defaults", "path", s.path, "error", err)
		return Default()
	}
	if rec.DisabledModules == nil {
		rec.DisabledModules = []string{}
	}
	if rec.DisabledRoutes == nil {
		rec.DisabledRoutes = []string{}
	}
	if rec.DisabledFeatures == nil {
		rec.DisabledFeatures = []string{}
	}
	if rec.RouteRateLimits == nil {
		rec.RouteRateLimits = map[string]int{}
	}
	if rec.FeatureExtras == nil {
		rec.FeatureExtras = map[string]json.RawMessage{}
	}
	return &rec
}

// Save pretty-prints s and atomically replaces the settings file:
// write to a sibling temp file then rename, so concurrent readers
// never observe a partially written file.
func (s *Store) Save(rec *Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".features-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp settings file: %w", err)
	}
	if err := os.Chmod(tmpPath, DefaultFilePermissions); err != nil {
		return fmt.Errorf("chmod temp settings file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// ApplyPatch loads the current record, merges raw into it, and saves
// the result, returning the merged record.
func (s *Store) ApplyPatch(raw json.RawMessage) (*Settings, error) {
	rec := s.Load()
	if err := ApplyPatch(rec, raw); err != nil {
		return nil, fmt.Errorf("apply settings patch: %w", err)
	}
	if err := s.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
