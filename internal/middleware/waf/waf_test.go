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

package waf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMaliciousMatchesCaseInsensitive(t *testing.T) {
	assert.True(t, IsMalicious(DefaultPatterns, "/x?q=<SCRIPT>alert(1)</script>", "curl/8"))
	assert.False(t, IsMalicious(DefaultPatterns, "/hello", "curl/8"))
}

func TestIsMaliciousLongUserAgentAlwaysFails(t *testing.T) {
	ua := strings.Repeat("a", MaxUserAgentLength+1)
	assert.True(t, IsMalicious(nil, "/hello", ua))
}

func TestIsMaliciousNoPatternsLetsNormalTrafficThrough(t *testing.T) {
	assert.False(t, IsMalicious(nil, "/hello", "curl/8"))
}
