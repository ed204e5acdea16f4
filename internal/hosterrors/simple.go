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

// Package hosterrors renders the admin surface's error responses with
// one consistent JSON envelope. Guard rejections and plugin panics are
// written as plain text by the router and do not go through it, and
// plugin-authored error:<code>:<body> payloads keep the tag grammar
// verbatim.
package hosterrors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Response is the rendered form of an error: an HTTP status, a content
// type, and a body ready to be written verbatim.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Coder lets an error contribute a machine-readable code to the
// envelope (e.g. "RATE_LIMITED", "PLUGIN_PANIC"). Errors that don't
// implement it fall back to a generic code.
type Coder interface {
	Code() string
}

// StatusResolver maps an error to an HTTP status. Simple.Format uses
// http.StatusInternalServerError when StatusResolver is nil.
type StatusResolver func(err error) int

// Simple is the default formatter: {"error": "<message>", "code": "<code>"}.
type Simple struct {
	StatusResolver StatusResolver
}

// Format renders err into a Response.
func (s Simple) Format(err error) Response {
	status := http.StatusInternalServerError
	if s.StatusResolver != nil {
		status = s.StatusResolver(err)
	}

	code := "INTERNAL_ERROR"
	var coder Coder
	if errors.As(err, &coder) {
		code = coder.Code()
	}

	body, _ := json.Marshal(map[string]any{
		"error": err.Error(),
		"code":  code,
	})

	return Response{
		Status:      status,
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}

// WriteTo writes r to w, setting headers before the status line.
func (r Response) WriteTo(w http.ResponseWriter) {
	w.Header().Set("Content-Type", r.ContentType)
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}
