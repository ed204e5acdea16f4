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
	"os/exec"
	"path/filepath"

	"rivaas.dev/pluginhost/internal/hostlog"
)

// BuildPipeline rebuilds every module/feature folder under sourceDir
// with "go build -buildmode=plugin" and copies the resulting .so into
// deploymentDir, the Go analogue of the original's per-folder "cargo
// build --release" + copy-to-./build step.
type BuildPipeline struct {
	SourceDir     string
	DeploymentDir string
	Log           hostlog.Logger
}

// NewBuildPipeline builds a BuildPipeline.
func NewBuildPipeline(sourceDir, deploymentDir string, log hostlog.Logger) *BuildPipeline {
	if log == nil {
		log = hostlog.Default()
	}
	return &BuildPipeline{SourceDir: sourceDir, DeploymentDir: deploymentDir, Log: log}
}

// BuildAll rebuilds every folder under SourceDir that contains a
// go.mod, in folder-name order. A folder that fails to build is
// logged and skipped — one broken module should not block the rest
// from deploying.
func (b *BuildPipeline) BuildAll() {
	entries, err := os.ReadDir(b.SourceDir)
	if err != nil {
		b.Log.Warn("build pipeline source dir unreadable", "dir", b.SourceDir, "error", err)
		return
	}

	if err := os.MkdirAll(b.DeploymentDir, 0o755); err != nil {
		b.Log.Warn("build pipeline deployment dir uncreatable", "dir", b.DeploymentDir, "error", err)
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		folder := filepath.Join(b.SourceDir, e.Name())
		if _, err := os.Stat(filepath.Join(folder, "go.mod")); err != nil {
			continue
		}
		b.buildOne(e.Name(), folder)
	}
}

func (b *BuildPipeline) buildOne(name, folder string) {
	b.Log.Info("building module", "name", name)
	out := filepath.Join(b.DeploymentDir, name+".so")

	cmd := exec.Command("go", "build", "-buildmode=plugin", "-o", out, ".")
	cmd.Dir = folder
	if output, err := cmd.CombinedOutput(); err != nil {
		b.Log.Warn("module build failed", "name", name, "error", err, "output", string(output))
		return
	}
	b.Log.Info("module built", "name", name, "artifact", out)
}
