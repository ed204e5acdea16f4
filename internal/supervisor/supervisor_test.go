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

package supervisor

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pluginhost/internal/hostrouter"
	"rivaas.dev/pluginhost/internal/loader"
	"rivaas.dev/pluginhost/internal/settings"
)

func newTestSupervisor(t *testing.T) *Supervisor {
	t.Helper()
	dir := t.TempDir()
	store := settings.NewStore(filepath.Join(dir, "features.json"), nil)
	handles := loader.NewHandleTable()

	deployDir := filepath.Join(dir, "deploy")
	require.NoError(t, os.MkdirAll(deployDir, 0o755))
	featDir := filepath.Join(dir, "deploy-features")
	require.NoError(t, os.MkdirAll(featDir, 0o755))

	ml := loader.NewModuleLoader(deployDir, filepath.Join(dir, "modules"), handles, nil)
	fl := loader.NewFeatureLoader(featDir, filepath.Join(dir, "features"), handles, nil)

	return New(store, ml, fl, hostrouter.NewPool(4), nil)
}

func TestSupervisorReloadInstallsRouterAndDocument(t *testing.T) {
	sup := newTestSupervisor(t)

	require.Nil(t, sup.Router())
	require.NoError(t, sup.Reload())

	require.NotNil(t, sup.Router())
	require.NotNil(t, sup.Document())
	assert.Equal(t, "3.0.0", sup.Document().OpenAPI)
}

func TestSupervisorReloadUnknownPathIs404(t *testing.T) {
	sup := newTestSupervisor(t)
	require.NoError(t, sup.Reload())

	rec := httptest.NewRecorder()
	sup.Router().Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, 404, rec.Code)
}
