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

package oauth2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresAuthEmptyListProtectsNothing(t *testing.T) {
	assert.False(t, RequiresAuth(nil, "/any"))
}

func TestRequiresAuthPrefixAndExact(t *testing.T) {
	routes := []string{"/admin", "/api/*"}
	assert.True(t, RequiresAuth(routes, "/admin"))
	assert.True(t, RequiresAuth(routes, "/api/users"))
	assert.False(t, RequiresAuth(routes, "/public"))
}

func TestHasBearerCaseInsensitive(t *testing.T) {
	assert.True(t, HasBearer("Bearer abc123"))
	assert.True(t, HasBearer("bearer abc123"))
	assert.False(t, HasBearer("Basic abc123"))
	assert.False(t, HasBearer(""))
}
