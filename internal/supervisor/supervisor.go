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

// Package supervisor owns the live routing tree and OpenAPI document,
// atomically swapping them on reload while in-flight requests keep
// running against the instance they started on.
package supervisor

import (
	"sync"
	"sync/atomic"

	"rivaas.dev/pluginhost/internal/hostlog"
	"rivaas.dev/pluginhost/internal/hostmetrics"
	"rivaas.dev/pluginhost/internal/hostrouter"
	"rivaas.dev/pluginhost/internal/loader"
	"rivaas.dev/pluginhost/internal/middleware/ratelimit"
	"rivaas.dev/pluginhost/internal/openapi"
	"rivaas.dev/pluginhost/internal/settings"
)

// ExampleProvider supplies a per-route request body example for the
// OpenAPI reflector; a nil ExampleFor on GenerateParams degrades to an
// empty-object example, and Supervisor leaves it nil by default.
type ExampleProvider func(path string) any

// Supervisor holds the currently installed Router and Document behind
// atomic pointers, and serializes reload passes so concurrent admin
// writes and watcher events never install a stale intermediate build.
type Supervisor struct {
	router atomic.Pointer[hostrouter.Router]
	doc    atomic.Pointer[openapi.Document]

	reloadMu sync.Mutex

	Store         *settings.Store
	ModuleLoader  *loader.ModuleLoader
	FeatureLoader *loader.FeatureLoader
	Pool          *hostrouter.Pool
	RateLimiter   *ratelimit.Limiter
	ExampleFor    ExampleProvider
	Metrics       *hostmetrics.Metrics
	Log           hostlog.Logger
}

// New builds a Supervisor. Call Reload once before serving to install
// the first Router/Document.
func New(store *settings.Store, moduleLoader *loader.ModuleLoader, featureLoader *loader.FeatureLoader, pool *hostrouter.Pool, log hostlog.Logger) *Supervisor {
	if log == nil {
		log = hostlog.Default()
	}
	return &Supervisor{
		Store:         store,
		ModuleLoader:  moduleLoader,
		FeatureLoader: featureLoader,
		Pool:          pool,
		RateLimiter:   ratelimit.New(),
		Log:           log,
	}
}

// Router returns the currently installed router, or nil before the
// first successful Reload.
func (s *Supervisor) Router() *hostrouter.Router {
	return s.router.Load()
}

// Document returns the currently installed OpenAPI document, or nil
// before the first successful Reload.
func (s *Supervisor) Document() *openapi.Document {
	return s.doc.Load()
}

// Reload builds fresh Module Loader, Feature Loader, Router Builder
// and OpenAPI Reflector output, then installs it atomically. Reloads
// are serialized by reloadMu so overlapping triggers (an admin write
// racing a watcher event) never install results computed from a
// settings snapshot older than one already installed.
func (s *Supervisor) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	rec := s.Store.Load()

	moduleResult := s.ModuleLoader.Load(rec)
	s.FeatureLoader.Load(rec)

	router := hostrouter.Build(hostrouter.BuildParams{
		Settings:      rec,
		ModuleResult:  moduleResult,
		FeatureLoader: s.FeatureLoader,
		Pool:          s.Pool,
		RateLimiter:   s.RateLimiter,
		Metrics:       s.Metrics,
	})

	var oauth2Extras struct {
		ProtectedRoutes []string `json:"protected_routes"`
	}
	rec.FeatureExtra("oauth2", &oauth2Extras)
	protected := oauth2Extras.ProtectedRoutes
	if len(protected) == 0 {
		protected = rec.OAuth2ProtectedRoutes
	}

	var routeInputs []openapi.RouteInput
	for path, ms := range moduleResult.Routes {
		routeInputs = append(routeInputs, openapi.RouteInput{
			Path:      path,
			ModuleTag: moduleResult.ModuleTag[path],
			Methods:   ms,
		})
	}

	doc := openapi.Generate(openapi.GenerateParams{
		Routes:          routeInputs,
		ProtectedRoutes: protected,
		ExampleFor:      s.ExampleFor,
	})

	s.router.Store(router)
	s.doc.Store(doc)

	if s.Metrics != nil {
		s.Metrics.ObserveReload("ok")
	}
	s.Log.Info("reload complete", "routes", len(moduleResult.Routes))
	return nil
}
