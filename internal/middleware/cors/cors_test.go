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

package cors

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppliesToPathEmptyMeansAll(t *testing.T) {
	var e Extras
	assert.True(t, e.AppliesToPath("/anything"))
}

func TestAppliesToPathRestrictedList(t *testing.T) {
	e := Extras{EnabledRoutes: []string{"/api/*"}}
	assert.True(t, e.AppliesToPath("/api/x"))
	assert.False(t, e.AppliesToPath("/other"))
}

func TestApplyHeadersWildcardOrigin(t *testing.T) {
	e := DefaultExtras()
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("Origin", "http://example.com")

	ApplyHeaders(w, r, e)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestApplyHeadersAllowCredentialsAcceptsNumeric(t *testing.T) {
	e := Extras{Origins: []string{"http://a.com"}, AllowCredentials: float64(1)}
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("Origin", "http://a.com")

	ApplyHeaders(w, r, e)

	assert.Equal(t, "http://a.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
