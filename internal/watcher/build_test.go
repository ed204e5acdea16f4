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

package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildAllSkipsFoldersWithoutGoMod confirms discovery only
// considers folders that look like Go modules, without actually
// invoking the compiler on them (the folder has no buildable code).
func TestBuildAllSkipsFoldersWithoutGoMod(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(src, "not_a_module"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "not_a_module", "notes.txt"), []byte("hi"), 0o644))

	pipeline := NewBuildPipeline(src, dest, nil)
	pipeline.BuildAll()

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
