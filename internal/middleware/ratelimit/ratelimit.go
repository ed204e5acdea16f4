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

// Package ratelimit implements the per-(client, path) fixed 1-second
// window counter. The counter map is process-wide, guarded by a single
// mutex — contention is acceptable at target scale since the critical
// section is O(1).
package ratelimit

import (
	"sync"
	"time"

	"rivaas.dev/pluginhost/internal/pathnorm"
)

type key struct {
	client string
	path   string
}

type window struct {
	start   time.Time
	counter int
}

// Limiter holds the global counter map.
type Limiter struct {
	mu      sync.Mutex
	windows map[key]*window
}

// New builds an empty Limiter.
func New() *Limiter {
	return &Limiter{windows: make(map[key]*window)}
}

// Allow reports whether the request identified by (client, path) is
// within limit, given the current time now. It resets the window if
// one second has elapsed since the window start, then increments the
// counter and compares against limit.
func (l *Limiter) Allow(client, path string, limit int, now time.Time) bool {
	k := key{client: client, path: pathnorm.Normalize(path)}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[k]
	if !ok || now.Sub(w.start) >= time.Second {
		w = &window{start: now, counter: 0}
		l.windows[k] = w
	}
	w.counter++
	return w.counter <= limit
}

// ClientID extracts the rate-limit client identity from the first
// value of X-Forwarded-For, falling back to "local".
func ClientID(forwardedFor string) string {
	if forwardedFor == "" {
		return "local"
	}
	for i := 0; i < len(forwardedFor); i++ {
		if forwardedFor[i] == ',' {
			return trimSpace(forwardedFor[:i])
		}
	}
	return trimSpace(forwardedFor)
}

func trimSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	if s == "" {
		return "local"
	}
	return s
}

// Extras is the feature_extras.rate_limit schema.
type Extras struct {
	RPS         int            `json:"rps"`
	RouteLimits map[string]int `json:"route_limits"`
}

// EffectiveLimit resolves the precedence chain: feature_extras route
// limit, then legacy route_rate_limits, then feature_extras rps, then
// the global default.
func EffectiveLimit(extras *Extras, legacyRouteLimits map[string]int, path string, globalDefault int) int {
	path = pathnorm.Normalize(path)
	if extras != nil {
		if v, ok := extras.RouteLimits[path]; ok {
			return v
		}
	}
	if v, ok := legacyRouteLimits[path]; ok {
		return v
	}
	if extras != nil && extras.RPS > 0 {
		return extras.RPS
	}
	return globalDefault
}
