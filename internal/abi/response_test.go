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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponseTags(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		wantStatus  int
		wantCT      string
		wantBodySub string
	}{
		{"html", "html:<b>hi</b>", http.StatusOK, "text/html; charset=utf-8", "<b>hi</b>"},
		{"text", "text:plain body", http.StatusOK, "text/plain; charset=utf-8", "plain body"},
		{"js", "js:console.log(1)", http.StatusOK, "application/javascript; charset=utf-8", "console.log"},
		{"css", "css:body{}", http.StatusOK, "text/css; charset=utf-8", "body{}"},
		{"xml", "xml:<a/>", http.StatusOK, "application/xml; charset=utf-8", "<a/>"},
		{"json", `json:{"a":1}`, http.StatusOK, "application/json; charset=utf-8", `{"a":1}`},
		{"auto-json-object", `{"msg":"hi"}`, http.StatusOK, "application/json; charset=utf-8", `{"msg":"hi"}`},
		{"auto-json-array", `[1,2]`, http.StatusOK, "application/json; charset=utf-8", `[1,2]`},
		{"auto-html-fallback", "hello", http.StatusOK, "text/html; charset=utf-8", "hello"},
		{"status-override", "status:201:html:created", http.StatusCreated, "text/html; charset=utf-8", "created"},
		{"error-json", `error:400:{"reason":"bad"}`, http.StatusBadRequest, "application/json; charset=utf-8", `{"reason":"bad"}`},
		{"error-text", "error:500:boom", http.StatusInternalServerError, "text/plain; charset=utf-8", "boom"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseResponse(c.in)
			assert.Equal(t, c.wantStatus, got.Status)
			assert.Equal(t, c.wantCT, got.ContentType)
			assert.Contains(t, string(got.Body), c.wantBodySub)
		})
	}
}

func TestParseResponseInvalidStatusFallsBack(t *testing.T) {
	got := ParseResponse("status:notanumber:hi")
	assert.Equal(t, http.StatusOK, got.Status)
}

func TestParseResponseErrorWithoutCodeDefaultsTo500(t *testing.T) {
	got := ParseResponse("error:no-colon-body")
	assert.Equal(t, http.StatusInternalServerError, got.Status)
}
