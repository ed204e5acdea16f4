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

package abi

import (
	"fmt"
	"plugin"
)

// Library wraps an opened plugin so callers can resolve symbols by
// name string, exactly as the manifest contract requires: a handler
// is referenced by its symbol name inside the manifest JSON, never by
// a fixed identifier.
type Library struct {
	Path string
	plug *plugin.Plugin
}

// OpenLibrary opens the shared object at path. Opening the same path
// twice returns distinct *Library wrappers around the same underlying
// *plugin.Plugin — the Go runtime itself caches plugin.Open by path,
// so library code is never mapped twice.
func OpenLibrary(path string) (*Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	return &Library{Path: path, plug: p}, nil
}

// LookupString resolves a symbol of type func() string.
func (l *Library) LookupString(symbol string) (func() string, bool) {
	sym, err := l.plug.Lookup(symbol)
	if err != nil {
		return nil, false
	}
	fn, ok := sym.(func() string)
	if !ok {
		if pfn, ok2 := sym.(*func() string); ok2 {
			return *pfn, true
		}
		return nil, false
	}
	return fn, true
}

// LookupBytesHandler resolves a symbol of type func([]byte) string.
func (l *Library) LookupBytesHandler(symbol string) (BytesHandler, bool) {
	sym, err := l.plug.Lookup(symbol)
	if err != nil {
		return nil, false
	}
	fn, ok := sym.(func([]byte) string)
	if !ok {
		if pfn, ok2 := sym.(*func([]byte) string); ok2 {
			return *pfn, true
		}
		return nil, false
	}
	return BytesHandler(fn), true
}

// LookupNoBodyHandler resolves a symbol of type func() string as a
// NoBodyHandler — the same shape as LookupString, kept distinct so
// call sites read by intent (route handler vs. metadata accessor).
func (l *Library) LookupNoBodyHandler(symbol string) (NoBodyHandler, bool) {
	fn, ok := l.LookupString(symbol)
	if !ok {
		return nil, false
	}
	return NoBodyHandler(fn), true
}
