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

// NoBodyHandler is the signature of a GET/DELETE plugin handler symbol.
type NoBodyHandler func() string

// BytesHandler is the signature of a POST/PUT plugin handler symbol.
type BytesHandler func([]byte) string

// MethodSet holds up to one handler per HTTP method for a single path.
// It is method-exclusive: dispatch never needs to choose between two
// handlers for the same method.
type MethodSet struct {
	Get    NoBodyHandler
	Post   BytesHandler
	Put    BytesHandler
	Delete NoBodyHandler
}

// HasAny reports whether at least one handler is present.
func (m MethodSet) HasAny() bool {
	return m.Get != nil || m.Post != nil || m.Put != nil || m.Delete != nil
}

// ManifestRoute is one entry of a library's routes_manifest array.
type ManifestRoute struct {
	Path       string `json:"path"`
	Method     string `json:"method"`
	Get        string `json:"get,omitempty"`
	PostBytes  string `json:"post_bytes,omitempty"`
	PutBytes   string `json:"put_bytes,omitempty"`
	Delete     string `json:"delete,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// RouteDescriptor is the Manifest Reader's structured output for one
// path contributed by one library.
type RouteDescriptor struct {
	Path        string
	ModuleTag   string
	Methods     MethodSet
	ContentType string
}

// SettingFieldType enumerates the settings schema types a Feature
// Manifest may declare.
type SettingFieldType string

const (
	SettingNumber          SettingFieldType = "number"
	SettingStringList      SettingFieldType = "string_list"
	SettingRouteList       SettingFieldType = "route_list"
	SettingRouteNumberMap  SettingFieldType = "route_number_map"
)

// SettingField describes one entry in a Feature Manifest's settings list.
type SettingField struct {
	Key     string           `json:"key"`
	Type    SettingFieldType `json:"type"`
	Label   string           `json:"label,omitempty"`
	Default any              `json:"default,omitempty"`
}

// FeatureManifest is the settings schema a feature library declares.
type FeatureManifest struct {
	Name        string         `json:"name"`
	Label       string         `json:"label,omitempty"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Settings    []SettingField `json:"settings"`
}
