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

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWindowResetAndLimit(t *testing.T) {
	l := New()
	t0 := time.Unix(1000, 0)

	assert.True(t, l.Allow("1.2.3.4", "/ping", 1, t0))
	assert.False(t, l.Allow("1.2.3.4", "/ping", 1, t0.Add(100*time.Millisecond)))

	// after the 1s mark, window resets
	assert.True(t, l.Allow("1.2.3.4", "/ping", 1, t0.Add(1100*time.Millisecond)))
}

func TestAllowIsolatesByClientAndPath(t *testing.T) {
	l := New()
	t0 := time.Unix(2000, 0)
	assert.True(t, l.Allow("a", "/x", 1, t0))
	assert.True(t, l.Allow("b", "/x", 1, t0))
	assert.True(t, l.Allow("a", "/y", 1, t0))
}

func TestClientIDPrefersFirstForwardedFor(t *testing.T) {
	assert.Equal(t, "1.1.1.1", ClientID("1.1.1.1, 2.2.2.2"))
	assert.Equal(t, "local", ClientID(""))
}

func TestEffectiveLimitPrecedence(t *testing.T) {
	extras := &Extras{RPS: 5, RouteLimits: map[string]int{"/a": 2}}
	legacy := map[string]int{"/a": 9, "/b": 3}

	assert.Equal(t, 2, EffectiveLimit(extras, legacy, "/a", 100)) // extras route wins
	assert.Equal(t, 3, EffectiveLimit(extras, legacy, "/b", 100)) // legacy route wins over rps
	assert.Equal(t, 5, EffectiveLimit(extras, legacy, "/c", 100)) // extras rps wins over global
	assert.Equal(t, 100, EffectiveLimit(nil, nil, "/c", 100))     // global default
}
