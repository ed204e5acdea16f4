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

import "encoding/json"

// ApplyPatch merges only the fields present in raw into s, leaving
// every other field untouched. Applying the same patch twice yields
// the same result (idempotent).
func ApplyPatch(s *Settings, raw json.RawMessage) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}

	if v, ok := body["rate_limit_enabled"]; ok {
		_ = json.Unmarshal(v, &s.RateLimitEnabled)
	}
	if v, ok := body["rate_limit_per_second"]; ok {
		_ = json.Unmarshal(v, &s.RateLimitPerSecond)
	}
	if v, ok := body["waf_enabled"]; ok {
		_ = json.Unmarshal(v, &s.WAFEnabled)
	}
	if v, ok := body["oauth2_enabled"]; ok {
		_ = json.Unmarshal(v, &s.OAuth2Enabled)
	}
	if v, ok := body["cors_enabled"]; ok {
		_ = json.Unmarshal(v, &s.CORSEnabled)
	}
	if v, ok := body["admin_console_enabled"]; ok {
		_ = json.Unmarshal(v, &s.AdminConsoleEnabled)
	}
	if v, ok := body["disabled_modules"]; ok {
		_ = json.Unmarshal(v, &s.DisabledModules)
	}
	if v, ok := body["disabled_routes"]; ok {
		_ = json.Unmarshal(v, &s.DisabledRoutes)
	}
	if v, ok := body["disabled_features"]; ok {
		_ = json.Unmarshal(v, &s.DisabledFeatures)
		// Disabling a feature by name also clears its enabled flag,
		// so a single disabled_features patch can't leave a stale
		// enabled bool out of sync with the feature actually loading.
		s.WAFEnabled = !s.HasDisabledFeature("waf") && s.WAFEnabled
		s.OAuth2Enabled = !s.HasDisabledFeature("oauth2") && s.OAuth2Enabled
		s.RateLimitEnabled = !s.HasDisabledFeature("rate_limit") && s.RateLimitEnabled
	}
	if v, ok := body["oauth2_protected_routes"]; ok {
		_ = json.Unmarshal(v, &s.OAuth2ProtectedRoutes)
	}
	if v, ok := body["route_rate_limits"]; ok {
		_ = json.Unmarshal(v, &s.RouteRateLimits)
	}
	if v, ok := body["feature_extras"]; ok {
		var extras map[string]json.RawMessage
		if err := json.Unmarshal(v, &extras); err == nil {
			s.FeatureExtras = extras
		}
	}
	return nil
}
