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

package settings

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "features.json"), nil)
	rec := store.Load()
	assert.Equal(t, Default(), rec)
}

func TestStoreSaveThenLoadRoundTrips(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "features.json"), nil)
	rec := Default()
	rec.RateLimitEnabled = true
	rec.RateLimitPerSecond = 5
	rec.DisabledRoutes = []string{"/a/b"}

	require.NoError(t, store.Save(rec))

	got := store.Load()
	assert.True(t, got.RateLimitEnabled)
	assert.Equal(t, 5, got.RateLimitPerSecond)
	assert.Equal(t, []string{"/a/b"}, got.DisabledRoutes)
}

func TestApplyPatchFidelity(t *testing.T) {
	rec := Default()
	rec.RateLimitPerSecond = 10
	rec.WAFEnabled = true

	patch, _ := json.Marshal(map[string]any{"rate_limit_enabled": true})
	require.NoError(t, ApplyPatch(rec, patch))

	assert.True(t, rec.RateLimitEnabled)
	assert.Equal(t, 10, rec.RateLimitPerSecond) // untouched
	assert.True(t, rec.WAFEnabled)               // untouched
}

func TestApplyPatchIsIdempotent(t *testing.T) {
	patch, _ := json.Marshal(map[string]any{
		"disabled_routes": []string{"/x"},
		"feature_extras":  map[string]any{"waf": map[string]any{"patterns": []string{"<script"}}},
	})

	a := Default()
	require.NoError(t, ApplyPatch(a, patch))
	b := a.Clone()
	require.NoError(t, ApplyPatch(b, patch))

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestApplyPatchDisabledFeaturesSyncsEnabledFlags(t *testing.T) {
	rec := Default()
	rec.WAFEnabled = true
	rec.OAuth2Enabled = true
	rec.RateLimitEnabled = true

	patch, _ := json.Marshal(map[string]any{"disabled_features": []string{"waf"}})
	require.NoError(t, ApplyPatch(rec, patch))

	assert.False(t, rec.WAFEnabled)
	assert.True(t, rec.OAuth2Enabled)
	assert.True(t, rec.RateLimitEnabled)
}

func TestStoreApplyPatchPersists(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "features.json"), nil)
	patch, _ := json.Marshal(map[string]any{"rate_limit_per_second": 42})

	rec, err := store.ApplyPatch(patch)
	require.NoError(t, err)
	assert.Equal(t, 42, rec.RateLimitPerSecond)

	reloaded := store.Load()
	assert.Equal(t, 42, reloaded.RateLimitPerSecond)
}
