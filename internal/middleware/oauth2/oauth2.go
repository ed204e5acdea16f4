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

// Package oauth2 implements the bearer-presence authorization guard.
// Token contents are never inspected — only the header's presence and
// shape.
package oauth2

import (
	"strings"

	"rivaas.dev/pluginhost/internal/pathnorm"
)

// RequiresAuth reports whether path matches one of protectedRoutes. An
// empty list protects nothing.
func RequiresAuth(protectedRoutes []string, path string) bool {
	if len(protectedRoutes) == 0 {
		return false
	}
	return pathnorm.MatchesAny(protectedRoutes, path)
}

// HasBearer reports whether authHeader begins with "bearer " (case
// insensitive).
func HasBearer(authHeader string) bool {
	return len(authHeader) >= len("bearer ") && strings.EqualFold(authHeader[:len("bearer ")], "bearer ")
}
