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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/hostlog"
	"rivaas.dev/pluginhost/internal/pathnorm"
	"rivaas.dev/pluginhost/internal/settings"
)

// ModuleLoader walks a deployment directory, opens every candidate
// shared library, and groups the handlers it exports into method sets
// keyed by normalized path.
type ModuleLoader struct {
	DeploymentDir string
	SourceDir     string
	Handles       *HandleTable
	Log           hostlog.Logger
}

// NewModuleLoader builds a loader rooted at deploymentDir (the flat
// directory of .so files) and sourceDir (the "./modules" tree used
// only for folder-name reconciliation).
func NewModuleLoader(deploymentDir, sourceDir string, handles *HandleTable, log hostlog.Logger) *ModuleLoader {
	if log == nil {
		log = hostlog.Default()
	}
	return &ModuleLoader{DeploymentDir: deploymentDir, SourceDir: sourceDir, Handles: handles, Log: log}
}

// Result is the output of one Load pass: the coalesced route table and
// the module tag each path belongs to (for the Admin Surface's
// module-grouped route listing).
type Result struct {
	Routes    map[string]abi.MethodSet
	ModuleTag map[string]string
}

// Load performs one full discovery pass, filtered by s.
func (l *ModuleLoader) Load(s *settings.Settings) Result {
	res := Result{
		Routes:    make(map[string]abi.MethodSet),
		ModuleTag: make(map[string]string),
	}

	names := BuildNameMap(l.SourceDir)

	entries, err := os.ReadDir(l.DeploymentDir)
	if err != nil {
		l.Log.Warn("deployment directory unreadable", "dir", l.DeploymentDir, "error", err)
		return res
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".so" {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		folder := names.FolderFor(stem)
		if s.HasDisabledModule(folder) {
			continue
		}

		path := filepath.Join(l.DeploymentDir, name)
		lib, err := l.Handles.Open(path)
		if err != nil {
			l.Log.Warn("failed to open module library", "path", path, "error", err)
			continue
		}

		descriptors := readLibraryRoutes(lib)
		for _, d := range descriptors {
			if s.HasDisabledRoute(d.Path) {
				continue
			}
			if !d.Methods.HasAny() {
				continue
			}
			res.Routes[d.Path] = d.Methods
			res.ModuleTag[d.Path] = folder
		}
	}

	return res
}

// readLibraryRoutes tries Manifest mode first, falling back to Legacy
// mode when the manifest symbol is missing or its JSON does not parse.
// A handler symbol that does not resolve is skipped and the rest of the
// library's routes are kept; none of these failures is logged, and none
// aborts the caller's loop over other libraries.
func readLibraryRoutes(lib *abi.Library) []abi.RouteDescriptor {
	if fn, ok := lib.LookupString(abi.SymbolRoutesManifest); ok {
		raw := fn()
		var entries []abi.ManifestRoute
		if err := json.Unmarshal([]byte(raw), &entries); err == nil {
			return manifestToDescriptors(lib, entries)
		}
	}
	return legacyDescriptor(lib)
}

func manifestToDescriptors(lib *abi.Library, entries []abi.ManifestRoute) []abi.RouteDescriptor {
	byPath := make(map[string]*abi.RouteDescriptor)
	var order []string

	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		path := pathnorm.Normalize(e.Path)
		d, ok := byPath[path]
		if !ok {
			nd := abi.RouteDescriptor{Path: path, ContentType: "application/json"}
			byPath[path] = &nd
			d = &nd
			order = append(order, path)
		}

		switch strings.ToLower(e.Method) {
		case "get":
			if e.Get == "" {
				continue
			}
			if h, ok := lib.LookupNoBodyHandler(e.Get); ok {
				d.Methods.Get = h
			}
		case "post":
			if e.PostBytes == "" {
				continue
			}
			if h, ok := lib.LookupBytesHandler(e.PostBytes); ok {
				d.Methods.Post = h
			}
		case "put":
			if e.PutBytes == "" {
				continue
			}
			if h, ok := lib.LookupBytesHandler(e.PutBytes); ok {
				d.Methods.Put = h
			}
		case "delete":
			if e.Delete == "" {
				continue
			}
			if h, ok := lib.LookupNoBodyHandler(e.Delete); ok {
				d.Methods.Delete = h
			}
		}
	}

	out := make([]abi.RouteDescriptor, 0, len(order))
	for _, p := range order {
		out = append(out, *byPath[p])
	}
	return out
}

func legacyDescriptor(lib *abi.Library) []abi.RouteDescriptor {
	pathFn, ok := lib.LookupString(abi.SymbolRoutePath)
	if !ok {
		return nil
	}
	path := pathFn()
	if path == "" {
		return nil
	}
	path = pathnorm.Normalize(path)

	contentType := "application/json"
	if ctFn, ok := lib.LookupString(abi.SymbolContentType); ok {
		if ct := ctFn(); ct != "" {
			contentType = ct
		}
	}

	var ms abi.MethodSet
	if h, ok := lib.LookupNoBodyHandler(abi.SymbolGet); ok {
		ms.Get = h
	}
	if h, ok := lib.LookupBytesHandler(abi.SymbolPostBytes); ok {
		ms.Post = h
	}
	if h, ok := lib.LookupBytesHandler(abi.SymbolPutBytes); ok {
		ms.Put = h
	}
	if h, ok := lib.LookupNoBodyHandler(abi.SymbolDelete); ok {
		ms.Delete = h
	}

	return []abi.RouteDescriptor{{Path: path, Methods: ms, ContentType: contentType}}
}
