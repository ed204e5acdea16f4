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

package loader

import (
	"os"
	"path/filepath"
	"strings"

	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/hostlog"
	"rivaas.dev/pluginhost/internal/settings"
)

// FeatureLoader discovers feature libraries (waf, oauth2, rate_limit,
// cors, ...), collects their settings manifests, and answers
// has_feature queries used to gate per-route middleware composition.
//
// The feature's runtime logic is not invoked through the library in
// this host: the host links the same behavior in natively (see the
// internal/middleware/{waf,oauth2,ratelimit} packages) and uses the
// loader purely for discovery, the admin-facing manifest, and the
// filename-substring has_feature query the spec requires.
type FeatureLoader struct {
	DeploymentDir string
	SourceDir     string
	Handles       *HandleTable
	Log           hostlog.Logger
}

// NewFeatureLoader builds a loader over featuresDeploymentDir / "./features".
func NewFeatureLoader(deploymentDir, sourceDir string, handles *HandleTable, log hostlog.Logger) *FeatureLoader {
	if log == nil {
		log = hostlog.Default()
	}
	return &FeatureLoader{DeploymentDir: deploymentDir, SourceDir: sourceDir, Handles: handles, Log: log}
}

// FeatureResult is one Load pass's output.
type FeatureResult struct {
	Loaded    map[string]bool
	Manifests []abi.FeatureManifest
	// Filenames records every deployed artifact's filename (not its
	// reconciled folder name). HasFeature does not read it; it rescans
	// the deployment directory on each call.
	Filenames []string
}

// Load performs discovery, honoring DisabledFeatures.
func (l *FeatureLoader) Load(s *settings.Settings) FeatureResult {
	res := FeatureResult{Loaded: make(map[string]bool)}

	names := BuildNameMap(l.SourceDir)

	entries, err := os.ReadDir(l.DeploymentDir)
	if err != nil {
		l.Log.Warn("features deployment directory unreadable", "dir", l.DeploymentDir, "error", err)
		return res
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".so" {
			continue
		}
		res.Filenames = append(res.Filenames, name)

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		shortNameHint := names.FolderFor(stem)

		path := filepath.Join(l.DeploymentDir, name)
		lib, err := l.Handles.Open(path)
		if err != nil {
			l.Log.Warn("failed to open feature library", "path", path, "error", err)
			continue
		}

		featName, ok := abi.ProbeFeatureName(lib, shortNameHint)
		if !ok {
			featName = shortNameHint
		}
		if s.HasDisabledFeature(featName) {
			continue
		}

		res.Loaded[featName] = true
		if m, err := abi.ProbeFeatureManifest(lib, shortNameHint); err == nil {
			res.Manifests = append(res.Manifests, m)
		}
	}

	return res
}

// HasFeature reports whether a deployed artifact's filename contains
// name, case-insensitively — independent of DisabledFeatures, since
// the spec defines has_feature purely in terms of deployment-directory
// presence and uses it only to gate whether the CORS layer is offered
// at all.
func (l *FeatureLoader) HasFeature(name string) bool {
	entries, err := os.ReadDir(l.DeploymentDir)
	if err != nil {
		return false
	}
	needle := strings.ToLower(name)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			return true
		}
	}
	return false
}
