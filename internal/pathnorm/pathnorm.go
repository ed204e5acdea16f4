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

// Package pathnorm implements the one path-normalization and
// pattern-matching algorithm shared by the router builder, the OAuth2,
// CORS and rate-limit guards, the settings store, and the OpenAPI
// reflector's route-protection check. The WAF guard matches raw
// substrings and does not use it.
package pathnorm

import "strings"

// Normalize trims whitespace, prepends a leading slash if absent,
// collapses runs of slashes, and strips a single trailing slash
// (except for the root path itself). It is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}

	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for _, r := range p {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	p = b.String()

	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	if p == "" {
		p = "/"
	}
	return p
}

// Matches reports whether normalized path matches pattern. A pattern
// ending in "/*" is a prefix match against the text preceding the
// suffix; any other pattern must match exactly. Both sides are
// normalized before comparing.
func Matches(pattern, path string) bool {
	pattern = Normalize(pattern)
	path = Normalize(path)

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if prefix == "" {
			prefix = "/"
		}
		if path == prefix {
			return false
		}
		return strings.HasPrefix(path, prefix+"/") || (prefix == "/" && strings.HasPrefix(path, "/"))
	}
	return pattern == path
}

// MatchesAny reports whether path matches any entry in patterns.
func MatchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if Matches(p, path) {
			return true
		}
	}
	return false
}
