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

// Package settings implements the persistent, reloadable configuration
// record that drives which modules, routes and features are active.
package settings

import (
	"encoding/json"

	"rivaas.dev/pluginhost/internal/pathnorm"
)

// Settings is one record per process, persisted to a single JSON file.
type Settings struct {
	RateLimitEnabled    bool `json:"rate_limit_enabled"`
	WAFEnabled          bool `json:"waf_enabled"`
	OAuth2Enabled       bool `json:"oauth2_enabled"`
	CORSEnabled         bool `json:"cors_enabled"`
	AdminConsoleEnabled bool `json:"admin_console_enabled"`

	RateLimitPerSecond int `json:"rate_limit_per_second"`

	DisabledModules  []string `json:"disabled_modules"`
	DisabledRoutes   []string `json:"disabled_routes"`
	DisabledFeatures []string `json:"disabled_features"`

	RouteRateLimits map[string]int `json:"route_rate_limits"`

	// OAuth2ProtectedRoutes is the legacy field predating
	// feature_extras.oauth2.protected_routes; kept for round-trip
	// fidelity with settings files written by older admin clients.
	// feature_extras takes precedence when both are present.
	OAuth2ProtectedRoutes []string `json:"oauth2_protected_routes,omitempty"`

	FeatureExtras map[string]json.RawMessage `json:"feature_extras"`
}

// Default returns the documented defaults, used when the settings file
// is absent or fails to parse.
func Default() *Settings {
	return &Settings{
		RateLimitEnabled:    false,
		WAFEnabled:          false,
		OAuth2Enabled:       false,
		CORSEnabled:         false,
		AdminConsoleEnabled: true,
		RateLimitPerSecond:  10,
		DisabledModules:     []string{},
		DisabledRoutes:      []string{},
		DisabledFeatures:    []string{},
		RouteRateLimits:     map[string]int{},
		FeatureExtras:       map[string]json.RawMessage{},
	}
}

// Clone returns a deep-enough copy for safe independent mutation by a
// patch operation.
func (s *Settings) Clone() *Settings {
	c := *s
	c.DisabledModules = append([]string(nil), s.DisabledModules...)
	c.DisabledRoutes = append([]string(nil), s.DisabledRoutes...)
	c.DisabledFeatures = append([]string(nil), s.DisabledFeatures...)
	c.OAuth2ProtectedRoutes = append([]string(nil), s.OAuth2ProtectedRoutes...)
	c.RouteRateLimits = make(map[string]int, len(s.RouteRateLimits))
	for k, v := range s.RouteRateLimits {
		c.RouteRateLimits[k] = v
	}
	c.FeatureExtras = make(map[string]json.RawMessage, len(s.FeatureExtras))
	for k, v := range s.FeatureExtras {
		c.FeatureExtras[k] = v
	}
	return &c
}

// FeatureExtra unmarshals the feature_extras entry for name into dst.
// A missing entry leaves dst untouched and returns false.
func (s *Settings) FeatureExtra(name string, dst any) bool {
	raw, ok := s.FeatureExtras[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// HasDisabledRoute reports whether path (already normalized) is in
// DisabledRoutes.
func (s *Settings) HasDisabledRoute(path string) bool {
	path = pathnorm.Normalize(path)
	for _, r := range s.DisabledRoutes {
		if pathnorm.Normalize(r) == path {
			return true
		}
	}
	return false
}

// HasDisabledModule reports whether folder is in DisabledModules.
func (s *Settings) HasDisabledModule(folder string) bool {
	for _, m := range s.DisabledModules {
		if m == folder {
			return true
		}
	}
	return false
}

// HasDisabledFeature reports whether name is in DisabledFeatures.
func (s *Settings) HasDisabledFeature(name string) bool {
	for _, f := range s.DisabledFeatures {
		if f == name {
			return true
		}
	}
	return false
}
