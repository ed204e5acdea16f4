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

// Package abi implements the plugin response-framing protocol: the
// tagged-string grammar a handler's return value is parsed against to
// produce an HTTP response.
package abi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Response is a fully resolved plugin response, ready to be written to
// an http.ResponseWriter.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// ParseResponse applies the tagged-payload grammar to a handler's
// returned string:
//
//	error:<code>:<body>    -> body is JSON if it looks like JSON, else text
//	status:<code>:<payload> -> payload re-parsed recursively at <code>
//	html:/text:/js:/css:/xml:/json:<payload>
//	otherwise: auto-detect JSON by leading '{'/'[' else HTML
func ParseResponse(text string) Response {
	if rest, ok := strings.CutPrefix(text, "error:"); ok {
		code, body := splitTag(rest)
		status := parseStatus(code, http.StatusInternalServerError)
		return errorBody(status, body)
	}

	if rest, ok := strings.CutPrefix(text, "status:"); ok {
		code, payload := splitTag(rest)
		status := parseStatus(code, http.StatusOK)
		return withStatus(payload, status)
	}

	return withStatus(text, http.StatusOK)
}

func splitTag(rest string) (code, body string) {
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		return strings.TrimSpace(rest[:idx]), rest[idx+1:]
	}
	return "", rest
}

func parseStatus(code string, fallback int) int {
	n, err := strconv.Atoi(code)
	if err != nil || n < 100 || n > 599 {
		return fallback
	}
	return n
}

func errorBody(status int, body string) Response {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(body)) {
			return Response{Status: status, ContentType: "application/json; charset=utf-8", Body: []byte(body)}
		}
	}
	return Response{Status: status, ContentType: "text/plain; charset=utf-8", Body: []byte(body)}
}

func withStatus(text string, status int) Response {
	switch {
	case strings.HasPrefix(text, "html:"):
		return Response{status, "text/html; charset=utf-8", []byte(text[len("html:"):])}
	case strings.HasPrefix(text, "text:"):
		return Response{status, "text/plain; charset=utf-8", []byte(text[len("text:"):])}
	case strings.HasPrefix(text, "js:"):
		return Response{status, "application/javascript; charset=utf-8", []byte(text[len("js:"):])}
	case strings.HasPrefix(text, "css:"):
		return Response{status, "text/css; charset=utf-8", []byte(text[len("css:"):])}
	case strings.HasPrefix(text, "xml:"):
		return Response{status, "application/xml; charset=utf-8", []byte(text[len("xml:"):])}
	case strings.HasPrefix(text, "json:"):
		body := text[len("json:"):]
		if json.Valid([]byte(body)) {
			return Response{status, "application/json; charset=utf-8", []byte(body)}
		}
		return Response{status, "application/json; charset=utf-8", []byte("null")}
	default:
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			if json.Valid([]byte(text)) {
				return Response{status, "application/json; charset=utf-8", []byte(text)}
			}
			return Response{status, "application/json; charset=utf-8", []byte("null")}
		}
		return Response{status, "text/html; charset=utf-8", []byte(text)}
	}
}

// WriteTo writes r to w.
func (r Response) WriteTo(w http.ResponseWriter) {
	w.Header().Set("Content-Type", r.ContentType)
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}
