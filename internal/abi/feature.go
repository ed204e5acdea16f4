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
	"encoding/json"
	"fmt"
	"strings"
)

// Capitalized exported symbol names a Go plugin built with
// -buildmode=plugin exposes. Go plugin symbols must start with an
// upper-case letter to be exported, so the generic C-ABI names from
// the protocol (routes_manifest, feature_name, ...) are carried here
// in their Go-exported spelling.
const (
	SymbolRoutesManifest  = "RoutesManifest"
	SymbolRoutePath       = "RoutePath"
	SymbolContentType     = "ContentType"
	SymbolGet             = "Get"
	SymbolPostBytes       = "PostBytes"
	SymbolPutBytes        = "PutBytes"
	SymbolDelete          = "Delete"
	SymbolFeatureName     = "FeatureName"
	SymbolFeatureManifest = "FeatureManifest"
)

// suffixedSymbol builds the short-name-suffixed compatibility form of
// a generic symbol, e.g. FeatureName + "waf" -> FeatureNameWaf.
func suffixedSymbol(generic, shortName string) string {
	if shortName == "" {
		return generic
	}
	return generic + strings.ToUpper(shortName[:1]) + strings.ToLower(shortName[1:])
}

// ProbeFeatureName resolves feature_name, trying the generic symbol
// first and the short-name-suffixed form second.
func ProbeFeatureName(lib *Library, shortNameHint string) (string, bool) {
	if fn, ok := lib.LookupString(SymbolFeatureName); ok {
		return fn(), true
	}
	if shortNameHint != "" {
		if fn, ok := lib.LookupString(suffixedSymbol(SymbolFeatureName, shortNameHint)); ok {
			return fn(), true
		}
	}
	return "", false
}

// ProbeFeatureManifest resolves feature_manifest the same way and
// parses its JSON into a FeatureManifest.
func ProbeFeatureManifest(lib *Library, shortNameHint string) (FeatureManifest, error) {
	var raw string
	if fn, ok := lib.LookupString(SymbolFeatureManifest); ok {
		raw = fn()
	} else if shortNameHint != "" {
		if fn, ok := lib.LookupString(suffixedSymbol(SymbolFeatureManifest, shortNameHint)); ok {
			raw = fn()
		}
	}
	if raw == "" {
		return FeatureManifest{}, fmt.Errorf("feature_manifest symbol not found")
	}
	var m FeatureManifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return FeatureManifest{}, fmt.Errorf("parse feature manifest: %w", err)
	}
	return m, nil
}
