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
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/loader"
	"rivaas.dev/pluginhost/internal/middleware/ratelimit"
	"rivaas.dev/pluginhost/internal/settings"
)

func TestBuildDispatchesRegisteredRoute(t *testing.T) {
	s := settings.Default()
	result := loader.Result{
		Routes: map[string]abi.MethodSet{
			"/api/hello": {Get: func() string { return `json:{"msg":"hi"}` }},
		},
		ModuleTag: map[string]string{"/api/hello": "hello"},
	}

	router := Build(BuildParams{Settings: s, ModuleResult: result, Pool: NewPool(4), RateLimiter: ratelimit.New()})

	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/hello", nil))

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"msg":"hi"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestBuildUnknownPathIs404(t *testing.T) {
	s := settings.Default()
	router := Build(BuildParams{Settings: s, Pool: NewPool(4), RateLimiter: ratelimit.New()})

	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))

	assert.Equal(t, 404, rec.Code)
}

func TestBuildWAFRejectsMaliciousURI(t *testing.T) {
	s := settings.Default()
	s.WAFEnabled = true
	extras, _ := json.Marshal(map[string]any{"patterns": []string{"<script"}})
	s.FeatureExtras = map[string]json.RawMessage{"waf": extras}

	result := loader.Result{Routes: map[string]abi.MethodSet{"/x": {Get: func() string { return "ok" }}}}
	router := Build(BuildParams{Settings: s, ModuleResult: result, Pool: NewPool(4), RateLimiter: ratelimit.New()})

	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/x?q=<script>alert(1)</script>", nil))
	assert.Equal(t, 403, rec.Code)
}

func TestBuildOAuth2RejectsMissingBearer(t *testing.T) {
	s := settings.Default()
	s.OAuth2Enabled = true
	extras, _ := json.Marshal(map[string]any{"protected_routes": []string{"/secure"}})
	s.FeatureExtras = map[string]json.RawMessage{"oauth2": extras}

	result := loader.Result{Routes: map[string]abi.MethodSet{"/secure": {Get: func() string { return "ok" }}}}
	router := Build(BuildParams{Settings: s, ModuleResult: result, Pool: NewPool(4), RateLimiter: ratelimit.New()})

	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/secure", nil))
	assert.Equal(t, 401, rec.Code)

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/secure", nil)
	req2.Header.Set("Authorization", "Bearer abc")
	router.Handler.ServeHTTP(rec2, req2)
	assert.Equal(t, 200, rec2.Code)
}

func TestBuildRateLimiterEnforcesWindow(t *testing.T) {
	s := settings.Default()
	s.RateLimitEnabled = true
	s.RateLimitPerSecond = 1

	result := loader.Result{Routes: map[string]abi.MethodSet{"/ping": {Get: func() string { return "ok" }}}}
	now := time.Unix(5000, 0)
	router := Build(BuildParams{
		Settings: s, ModuleResult: result, Pool: NewPool(4), RateLimiter: ratelimit.New(),
		Clock: func() time.Time { return now },
	})

	rec1 := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec1, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, 200, rec1.Code)

	rec2 := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec2, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, 429, rec2.Code)
}

func TestBuildPanicRecoversTo500(t *testing.T) {
	s := settings.Default()
	result := loader.Result{Routes: map[string]abi.MethodSet{"/boom": {Get: func() string { panic("boom") }}}}
	router := Build(BuildParams{Settings: s, ModuleResult: result, Pool: NewPool(4), RateLimiter: ratelimit.New()})

	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, 500, rec.Code)
	require.Contains(t, rec.Body.String(), "Plugin panicked")
}
