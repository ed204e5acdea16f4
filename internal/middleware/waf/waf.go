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

// Package waf implements the request-filtering guard: a substring
// pattern match against the request URI and User-Agent.
package waf

import "strings"

// MaxUserAgentLength is enforced regardless of configured patterns.
const MaxUserAgentLength = 1024

// DefaultPatterns is the pattern set the original implementation
// hardcoded before patterns became configurable. The guard does not
// fall back to it: with no feature_extras.waf.patterns configured, only
// the User-Agent length rule applies.
var DefaultPatterns = []string{
	"<script", "%3cscript", "javascript:", "onerror=", "onload=",
	"<img", "<svg", "../", "union select", "select%20",
	"or 1=1", "drop table", "insert%20", "update%20", "delete%20",
}

// IsMalicious reports whether uri or userAgent contains any of
// patterns (case-insensitive), or userAgent exceeds MaxUserAgentLength.
func IsMalicious(patterns []string, uri, userAgent string) bool {
	if len(userAgent) > MaxUserAgentLength {
		return true
	}
	if len(patterns) == 0 {
		return false
	}
	lowerURI := strings.ToLower(uri)
	lowerUA := strings.ToLower(userAgent)
	for _, p := range patterns {
		lp := strings.ToLower(p)
		if strings.Contains(lowerURI, lp) || strings.Contains(lowerUA, lp) {
			return true
		}
	}
	return false
}
