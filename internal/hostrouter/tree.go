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
	"net/http"

	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/pathnorm"
)

// Leaf is one path's dispatchable handler set plus the CORS layer (if
// any) composed for this specific path.
type Leaf struct {
	Path        string
	ModuleTag   string
	ContentType string
	Methods     abi.MethodSet
	cors        http.Handler // the method handler, wrapped in CORS when a per-route layer applies
}

// Tree is the immutable, method-dispatching routing table. It is
// rebuilt wholesale on every reload and swapped in by the Supervisor —
// never mutated once built.
type Tree struct {
	leaves map[string]*Leaf
}

// NewTree builds an empty Tree; Router Builder appends leaves then
// freezes it by handing the pointer to the Supervisor.
func NewTree() *Tree {
	return &Tree{leaves: make(map[string]*Leaf)}
}

// Add inserts or replaces the leaf at path. Per §4.3's tie-break, a
// later Add for the same path wins (last insertion).
func (t *Tree) Add(leaf *Leaf) {
	t.leaves[pathnorm.Normalize(leaf.Path)] = leaf
}

// Lookup finds the leaf serving the normalized request path.
func (t *Tree) Lookup(path string) (*Leaf, bool) {
	l, ok := t.leaves[pathnorm.Normalize(path)]
	return l, ok
}

// Paths returns every path currently served. The OpenAPI reflector and
// the admin route listing do not read it; they work from the loader
// result and the OpenAPI document respectively.
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.leaves))
	for p := range t.leaves {
		out = append(out, p)
	}
	return out
}

// Len reports how many distinct paths are served.
func (t *Tree) Len() int {
	return len(t.leaves)
}
