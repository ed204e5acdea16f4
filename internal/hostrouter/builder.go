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

package hostrouter

import (
	"net/http"
	"time"

	"rivaas.dev/pluginhost/internal/hostmetrics"
	"rivaas.dev/pluginhost/internal/loader"
	"rivaas.dev/pluginhost/internal/middleware/cors"
	"rivaas.dev/pluginhost/internal/middleware/oauth2"
	"rivaas.dev/pluginhost/internal/middleware/ratelimit"
	"rivaas.dev/pluginhost/internal/middleware/waf"
	"rivaas.dev/pluginhost/internal/pathnorm"
	"rivaas.dev/pluginhost/internal/settings"
)

// Router is the built artifact the Supervisor installs: the immutable
// dispatch Tree plus the fully guarded http.Handler serving it.
type Router struct {
	Tree    *Tree
	Handler http.Handler
}

// BuildParams carries everything the Router Builder needs for one
// build pass. RateLimiter is shared across builds (it is process-wide
// state per the spec, not rebuilt on reload).
type BuildParams struct {
	Settings      *settings.Settings
	ModuleResult  loader.Result
	FeatureLoader *loader.FeatureLoader
	Pool          *Pool
	RateLimiter   *ratelimit.Limiter
	Clock         func() time.Time
	Metrics       *hostmetrics.Metrics
}

// Build performs one Router Builder pass: synthesizes leaves from the
// loaded method sets, composes per-route CORS, then wraps the whole
// tree with the global WAF -> OAuth2 -> RateLimiter guard chain.
func Build(p BuildParams) *Router {
	if p.Clock == nil {
		p.Clock = time.Now
	}

	tree := NewTree()
	var corsExtras cors.Extras
	hasCORS := p.Settings.CORSEnabled && p.FeatureLoader != nil && p.FeatureLoader.HasFeature("cors")
	if hasCORS {
		corsExtras = cors.DefaultExtras()
		p.Settings.FeatureExtra("cors", &corsExtras)
	}

	for path, ms := range p.ModuleResult.Routes {
		leaf := &Leaf{
			Path:      path,
			ModuleTag: p.ModuleResult.ModuleTag[path],
		}
		base := wrapMethodSet(path, ms, p.Pool, p.Metrics)
		leaf.Methods = ms
		if hasCORS && corsExtras.AppliesToPath(path) {
			leaf.cors = withCORS(base, corsExtras)
		} else {
			leaf.cors = base
		}
		tree.Add(leaf)
	}

	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leaf, ok := tree.Lookup(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		leaf.cors.ServeHTTP(w, r)
	})

	var handler http.Handler = dispatch
	if p.Settings.RateLimitEnabled {
		handler = withRateLimit(handler, p.Settings, p.RateLimiter, p.Clock, p.Metrics)
	}
	if p.Settings.OAuth2Enabled {
		handler = withOAuth2(handler, p.Settings, p.Metrics)
	}
	if p.Settings.WAFEnabled {
		handler = withWAF(handler, p.Settings, p.Metrics)
	}

	return &Router{Tree: tree, Handler: handler}
}

func withCORS(next http.Handler, extras cors.Extras) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cors.ApplyHeaders(w, r, extras)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withWAF(next http.Handler, s *settings.Settings, metrics *hostmetrics.Metrics) http.Handler {
	var extras struct {
		Patterns []string `json:"patterns"`
	}
	s.FeatureExtra("waf", &extras)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if waf.IsMalicious(extras.Patterns, r.URL.RequestURI(), r.UserAgent()) {
			if metrics != nil {
				metrics.ObserveGuardRejection("waf")
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withOAuth2(next http.Handler, s *settings.Settings, metrics *hostmetrics.Metrics) http.Handler {
	var extras struct {
		ProtectedRoutes []string `json:"protected_routes"`
	}
	s.FeatureExtra("oauth2", &extras)
	protected := extras.ProtectedRoutes
	if len(protected) == 0 {
		protected = s.OAuth2ProtectedRoutes
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := pathnorm.Normalize(r.URL.Path)
		if oauth2.RequiresAuth(protected, path) && !oauth2.HasBearer(r.Header.Get("Authorization")) {
			if metrics != nil {
				metrics.ObserveGuardRejection("oauth2")
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withRateLimit(next http.Handler, s *settings.Settings, limiter *ratelimit.Limiter, clock func() time.Time, metrics *hostmetrics.Metrics) http.Handler {
	var extras ratelimit.Extras
	s.FeatureExtra("rate_limit", &extras)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := ratelimit.ClientID(r.Header.Get("X-Forwarded-For"))
		path := pathnorm.Normalize(r.URL.Path)
		limit := ratelimit.EffectiveLimit(&extras, s.RouteRateLimits, path, s.RateLimitPerSecond)
		if !limiter.Allow(client, path, limit, clock()) {
			if metrics != nil {
				metrics.ObserveGuardRejection("rate_limit")
			}
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
