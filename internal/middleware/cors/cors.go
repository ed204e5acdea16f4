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

// Package cors implements the per-route CORS layer. Unlike the other
// guards, CORS configuration is entirely data-driven from
// feature_extras.cors rather than Go-level functional options, since
// it must be rebuilt from Settings on every reload.
package cors

import (
	"net/http"
	"strconv"
	"strings"

	"rivaas.dev/pluginhost/internal/pathnorm"
)

// Extras is the feature_extras.cors schema.
type Extras struct {
	EnabledRoutes    []string `json:"enabled_routes"`
	Origins          []string `json:"origins"`
	Methods          []string `json:"methods"`
	Headers          []string `json:"headers"`
	ExposeHeaders    []string `json:"expose_headers"`
	AllowCredentials any      `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// DefaultExtras mirrors the feature library's manifest defaults.
func DefaultExtras() Extras {
	return Extras{
		Origins: []string{"*"},
		Methods: []string{"GET", "POST", "PUT", "DELETE"},
		Headers: []string{"*"},
	}
}

// AppliesToPath reports whether the layer should attach for path: if
// EnabledRoutes is non-empty, path must match one of its entries.
func (e Extras) AppliesToPath(path string) bool {
	if len(e.EnabledRoutes) == 0 {
		return true
	}
	return pathnorm.MatchesAny(e.EnabledRoutes, path)
}

func (e Extras) allowCredentials() bool {
	switch v := e.AllowCredentials.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// ApplyHeaders sets the standard CORS response headers on w according
// to e and the incoming request's Origin.
func ApplyHeaders(w http.ResponseWriter, r *http.Request, e Extras) {
	origin := r.Header.Get("Origin")

	if contains(e.Origins, "*") {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else if origin != "" && contains(e.Origins, origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}

	if len(e.Methods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(e.Methods, ", "))
	}
	if contains(e.Headers, "*") {
		reqHeaders := r.Header.Get("Access-Control-Request-Headers")
		if reqHeaders != "" {
			w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
		} else {
			w.Header().Set("Access-Control-Allow-Headers", "*")
		}
	} else if len(e.Headers) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(e.Headers, ", "))
	}
	if len(e.ExposeHeaders) > 0 {
		w.Header().Set("Access-Control-Expose-Headers", strings.Join(e.ExposeHeaders, ", "))
	}
	if e.allowCredentials() {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if e.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(e.MaxAge))
	}
}

func contains(list []string, needle string) bool {
	for _, v := range list {
		if v == needle {
			return true
		}
	}
	return false
}
