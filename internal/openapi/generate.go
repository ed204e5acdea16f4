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

package openapi

import (
	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/middleware/oauth2"
)

// RouteInput is one path's contribution to the document, as produced
// by the Module Loader.
type RouteInput struct {
	Path      string
	ModuleTag string
	Methods   abi.MethodSet
}

// GenerateParams carries the inputs the reflector needs beyond the
// route table itself.
type GenerateParams struct {
	Routes          []RouteInput
	ProtectedRoutes []string
	ExampleFor      func(path string) any // optional per-route request example
}

// Generate builds a fresh Document. Routes already exclude
// disabled_routes — the Module Loader filters those out before this
// is ever called — so no further disabled-route check happens here.
func Generate(p GenerateParams) *Document {
	doc := BaseDocument()

	for _, r := range p.Routes {
		item := PathItem{XModule: r.ModuleTag}
		protected := oauth2.RequiresAuth(p.ProtectedRoutes, r.Path)

		if r.Methods.Get != nil {
			item.Get = buildOperation(r.Path, "get", protected, p.ExampleFor)
		}
		if r.Methods.Post != nil {
			item.Post = buildOperation(r.Path, "post", protected, p.ExampleFor)
		}
		if r.Methods.Put != nil {
			item.Put = buildOperation(r.Path, "put", protected, p.ExampleFor)
		}
		if r.Methods.Delete != nil {
			item.Delete = buildOperation(r.Path, "delete", protected, p.ExampleFor)
		}
		doc.Paths[r.Path] = item
	}

	return doc
}

func buildOperation(path, method string, protected bool, exampleFor func(string) any) *Operation {
	op := &Operation{
		Parameters: []Parameter{
			{Name: "X-Custom-Header", In: "header", Required: false, Schema: Schema{Type: "string"}},
		},
		Responses: map[string]Response{
			"200": {
				Description: "OK",
				Content: map[string]MediaType{
					"application/json": {Schema: Schema{Type: "object"}},
				},
			},
		},
	}

	if protected {
		op.Security = []SecurityRequirement{{"apiKeyAuth": {}, "bearerAuth": {}}}
	} else {
		op.Security = []SecurityRequirement{{"apiKeyAuth": {}}}
	}

	if method == "post" || method == "put" {
		var example any = map[string]any{}
		if exampleFor != nil {
			if e := exampleFor(path); e != nil {
				example = e
			}
		}
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"application/json": {Schema: Schema{Type: "object"}, Example: example},
			},
		}
	}

	return op
}
