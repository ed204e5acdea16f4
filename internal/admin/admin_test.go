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
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pluginhost/internal/openapi"
	"rivaas.dev/pluginhost/internal/settings"
)

type stubReloader struct {
	reloaded int
	doc      *openapi.Document
}

func (s *stubReloader) Reload() error {
	s.reloaded++
	return nil
}

func (s *stubReloader) Document() *openapi.Document {
	return s.doc
}

func newTestServer(t *testing.T) (*Server, *stubReloader) {
	t.Helper()
	dir := t.TempDir()
	store := settings.NewStore(filepath.Join(dir, "features.json"), nil)
	sup := &stubReloader{doc: openapi.BaseDocument()}
	return New(store, sup, nil, filepath.Join(dir, "modules"), nil), sup
}

func TestLoopbackGuardRejectsNonLocalhost(t *testing.T) {
	handler := LoopbackGuard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.Host = "example.com"
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoopbackGuardAllowsLocalhostLoopback(t *testing.T) {
	handler := LoopbackGuard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.Host = "localhost:3000"
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoopbackGuardIgnoresUnguardedPaths(t *testing.T) {
	handler := LoopbackGuard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	req.Host = "example.com"
	req.RemoteAddr = "203.0.113.9:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsGetReturnsDefaults(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin_console_enabled":true`)
}

func TestSettingsPostPatchesAndReloads(t *testing.T) {
	srv, sup := newTestServer(t)
	body := strings.NewReader(`{"waf_enabled":true}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/settings", body)
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sup.reloaded)

	loaded := srv.Store.Load()
	assert.True(t, loaded.WAFEnabled)
}

func TestRoutesPostPatchesDisabledRoutes(t *testing.T) {
	srv, sup := newTestServer(t)
	body := strings.NewReader(`{"disabled_routes":["/greet"]}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/routes", body)
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sup.reloaded)

	loaded := srv.Store.Load()
	assert.Equal(t, []string{"/greet"}, loaded.DisabledRoutes)
}

func TestReloadEndpointTriggersReload(t *testing.T) {
	srv, sup := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sup.reloaded)
}

func TestFeaturesManifestReturnsEmptyArrayWithoutLoader(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/features-manifest", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}
