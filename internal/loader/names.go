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

package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// NameMap reconciles a built artifact's filename stem with the source
// folder it was built from. Go's module directive in go.mod is the
// equivalent of Cargo.toml's [package] name: it may differ from the
// folder name, so both the declared module's last path element and
// the folder name itself are registered as keys.
type NameMap map[string]string

// BuildNameMap scans sourceDir (e.g. "./modules" or "./features") for
// child folders containing a go.mod, reading each one's module
// directive to map the declared package name to the folder name.
func BuildNameMap(sourceDir string) NameMap {
	m := make(NameMap)
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return m
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		folder := e.Name()
		goModPath := filepath.Join(sourceDir, folder, "go.mod")
		if _, err := os.Stat(goModPath); err != nil {
			continue
		}
		if pkg, ok := readModuleName(goModPath); ok {
			m[pkg] = folder
		}
		m[folder] = folder
	}
	return m
}

// readModuleName extracts the last path element of the "module"
// directive from a go.mod file.
func readModuleName(goModPath string) (string, bool) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		modPath := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if modPath == "" {
			return "", false
		}
		parts := strings.Split(modPath, "/")
		return parts[len(parts)-1], true
	}
	return "", false
}

// FolderFor resolves stem (a deployed artifact's filename stem) to its
// logical module/feature folder name; the stem itself is used if no
// mapping is known.
func (m NameMap) FolderFor(stem string) string {
	if folder, ok := m[stem]; ok {
		return folder
	}
	return stem
}
