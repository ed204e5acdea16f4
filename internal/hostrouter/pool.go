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

// Package hostrouter builds the live routing tree: it wraps loaded
// method sets in panic-isolated, pool-dispatched handlers and composes
// the global WAF/OAuth2/RateLimit guards and per-route CORS layer
// around them.
package hostrouter

import (
	"context"

	"rivaas.dev/pluginhost/internal/hostlog"
	"rivaas.dev/pluginhost/internal/middleware/recovery"
)

// Pool bounds how many plugin handler invocations run concurrently,
// the Go analogue of moving blocking work off the async scheduler:
// request-serving goroutines submit work and wait for its result
// rather than running plugin code inline.
type Pool struct {
	sem chan struct{}
	Log hostlog.Logger
}

// NewPool builds a Pool with the given concurrency ceiling. A ceiling
// of zero or less is treated as unbounded (a direct call, still on a
// freshly spawned goroutine for panic isolation).
func NewPool(concurrency int) *Pool {
	if concurrency <= 0 {
		return &Pool{Log: hostlog.Default()}
	}
	return &Pool{sem: make(chan struct{}, concurrency), Log: hostlog.Default()}
}

// Run executes fn on a pooled goroutine and blocks until it completes
// or ctx is done. Panics inside fn are recovered (and logged, with
// their stack trace) via recovery.Call, reported back as ok=false.
func (p *Pool) Run(ctx context.Context, fn func() string) (result string, ok bool) {
	if p.sem != nil {
		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
		case <-ctx.Done():
			return "", false
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, ok = recovery.Call(fn, recovery.WithLogger(p.Log))
	}()

	select {
	case <-done:
		return result, ok
	case <-ctx.Done():
		return "", false
	}
}
