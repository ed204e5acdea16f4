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

// Package admin serves the operator-facing settings, routes and
// reload surface, gated by a loopback guard on its most sensitive
// endpoints.
package admin

import (
	"net"
	"net/http"
	"strings"
)

// guardedPaths lists the exact paths the loopback guard applies to.
// "/admin/reload" and "/admin/routes" are deliberately excluded: only
// the console root and the settings endpoint carry the restriction.
var guardedPaths = map[string]bool{
	"/admin":          true,
	"/admin/":         true,
	"/admin/settings": true,
}

// LoopbackGuard requires the request's Host header base to equal
// "localhost" (case-insensitive) and the client IP to be the IPv4 or
// IPv6 loopback address, for the handful of paths in guardedPaths.
// Every other path passes through untouched.
func LoopbackGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !guardedPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		hostBase, _, ok := strings.Cut(r.Host, ":")
		if !ok {
			hostBase = r.Host
		}
		hostOK := strings.EqualFold(hostBase, "localhost")

		ipOK := false
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip := net.ParseIP(host)
			ipOK = ip != nil && ip.IsLoopback()
		}

		if !hostOK || !ipOK {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
