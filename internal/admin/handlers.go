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

package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/hosterrors"
	"rivaas.dev/pluginhost/internal/hostlog"
	"rivaas.dev/pluginhost/internal/loader"
	"rivaas.dev/pluginhost/internal/openapi"
	"rivaas.dev/pluginhost/internal/settings"
)

var errFormatter = hosterrors.Simple{StatusResolver: hosterrors.ResolveStatus}

// writeErr renders err through the host's standard error envelope. Use
// a *hosterrors.Tagged to control the status and code; anything else
// resolves to a 500 INTERNAL_ERROR.
func writeErr(w http.ResponseWriter, err error) {
	errFormatter.Format(err).WriteTo(w)
}

// Reloader is what the admin surface needs from the Live Supervisor:
// Reload re-runs a full load+build pass and installs the result, and
// Document returns the installed OpenAPI document for the route listing.
type Reloader interface {
	Reload() error
	Document() *openapi.Document
}

// Server wires the admin HTTP surface to a Settings Store, the Live
// Supervisor, and the Feature Loader used for the manifest endpoint.
type Server struct {
	Store         *settings.Store
	Supervisor    Reloader
	FeatureLoader *loader.FeatureLoader
	ModulesDir    string // source tree scanned for the modules list, e.g. "./modules"
	Log           hostlog.Logger
}

// New builds a Server.
func New(store *settings.Store, sup Reloader, featureLoader *loader.FeatureLoader, modulesDir string, log hostlog.Logger) *Server {
	if log == nil {
		log = hostlog.Default()
	}
	return &Server{Store: store, Supervisor: sup, FeatureLoader: featureLoader, ModulesDir: modulesDir, Log: log}
}

// Routes returns the admin mux, unguarded: wrap it with LoopbackGuard
// at the call site (it must see the full "/admin/..." path to decide
// which requests to restrict).
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin", s.handleConsole)
	mux.HandleFunc("/admin/", s.handleConsole)
	mux.HandleFunc("/admin/settings", s.handleSettings)
	mux.HandleFunc("/admin/routes", s.handleRoutes)
	mux.HandleFunc("/admin/reload", s.handleReload)
	mux.HandleFunc("/admin/features-manifest", s.handleFeaturesManifest)
	return mux
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/admin" && r.URL.Path != "/admin/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, consoleHTML)
}

func (s *Server) moduleFolders() []string {
	var names []string
	entries, err := os.ReadDir(s.ModulesDir)
	if err != nil {
		return names
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.ModulesDir, e.Name(), "go.mod")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rec := s.Store.Load()
		writeJSON(w, http.StatusOK, map[string]any{
			"settings": rec,
			"modules":  s.moduleFolders(),
		})
	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeErr(w, hosterrors.NewTagged(http.StatusBadRequest, hosterrors.CodeConfiguration, "bad request body"))
			return
		}
		if _, err := s.Store.ApplyPatch(body); err != nil {
			s.Log.Warn("settings patch failed", "error", err)
			writeErr(w, hosterrors.NewTagged(http.StatusInternalServerError, hosterrors.CodeConfiguration, "failed to apply settings"))
			return
		}
		if err := s.Supervisor.Reload(); err != nil {
			s.Log.Warn("reload after settings patch failed", "error", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRoutes renders the admin console's module/route groupings: the
// union of every live route from the current OpenAPI document plus
// any currently disabled_routes entry (so a disabled route still has
// somewhere to show up as an unchecked toggle).
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		grouped := make(map[string]map[string]bool)
		addRoute := func(module, path string) {
			if grouped[module] == nil {
				grouped[module] = make(map[string]bool)
			}
			grouped[module][path] = true
		}

		if doc := s.Supervisor.Document(); doc != nil {
			for path, item := range doc.Paths {
				module := item.XModule
				if module == "" {
					module = firstSegment(path)
				}
				addRoute(module, path)
			}
		}

		rec := s.Store.Load()
		for _, path := range rec.DisabledRoutes {
			addRoute(firstSegment(path), path)
		}

		var modules []string
		for m := range grouped {
			modules = append(modules, m)
		}
		sort.Strings(modules)

		type group struct {
			Module string   `json:"module"`
			Routes []string `json:"routes"`
		}
		groups := make([]group, 0, len(modules))
		for _, m := range modules {
			var routes []string
			for p := range grouped[m] {
				routes = append(routes, p)
			}
			sort.Strings(routes)
			groups = append(groups, group{Module: m, Routes: routes})
		}

		writeJSON(w, http.StatusOK, map[string]any{"groups": groups})

	case http.MethodPost:
		var body struct {
			DisabledRoutes []string `json:"disabled_routes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, hosterrors.NewTagged(http.StatusBadRequest, hosterrors.CodeConfiguration, "bad request body"))
			return
		}
		raw, _ := json.Marshal(map[string]any{"disabled_routes": body.DisabledRoutes})
		if _, err := s.Store.ApplyPatch(raw); err != nil {
			writeErr(w, hosterrors.NewTagged(http.StatusInternalServerError, hosterrors.CodeConfiguration, "failed to apply routes patch"))
			return
		}
		if err := s.Supervisor.Reload(); err != nil {
			s.Log.Warn("reload after routes patch failed", "error", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Supervisor.Reload(); err != nil {
		writeErr(w, hosterrors.NewTagged(http.StatusInternalServerError, hosterrors.CodeReloadFailed, "reload failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleFeaturesManifest(w http.ResponseWriter, r *http.Request) {
	if s.FeatureLoader == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	rec := s.Store.Load()
	result := s.FeatureLoader.Load(rec)
	manifests := result.Manifests
	if manifests == nil {
		manifests = []abi.FeatureManifest{}
	}
	writeJSON(w, http.StatusOK, manifests)
}

func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
