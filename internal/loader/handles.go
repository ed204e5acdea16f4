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

// Package loader walks the deployment and source directories to
// discover modules and features, opens their libraries through the
// Plugin ABI, and groups their contributed handlers.
package loader

import (
	"sync"

	"rivaas.dev/pluginhost/internal/abi"
)

// HandleTable is the process-lifetime, append-only collection of
// opened library handles. Code pages referenced by any routing tree
// — including stale ones still serving in-flight requests — must
// remain valid for the life of the process, so entries are never
// removed.
type HandleTable struct {
	mu       sync.Mutex
	byPath   map[string]*abi.Library
	ordered  []*abi.Library
}

// NewHandleTable builds an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{byPath: make(map[string]*abi.Library)}
}

// Open opens path if not already open and retains the handle forever.
// A second Open of the same path returns the same handle.
func (t *HandleTable) Open(path string) (*abi.Library, error) {
	t.mu.Lock()
	if lib, ok := t.byPath[path]; ok {
		t.mu.Unlock()
		return lib, nil
	}
	t.mu.Unlock()

	lib, err := abi.OpenLibrary(path)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.byPath[path]; ok {
		return existing, nil
	}
	t.byPath[path] = lib
	t.ordered = append(t.ordered, lib)
	return lib, nil
}

// Count returns the number of distinct libraries ever opened.
func (t *HandleTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ordered)
}
