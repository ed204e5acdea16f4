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

// Package recovery isolates panics raised by plugin handler code,
// converting them into the host's fixed "Plugin panicked" response
// rather than letting them escape into the worker pool's goroutine.
package recovery

import (
	"runtime/debug"

	"rivaas.dev/pluginhost/internal/hostlog"
)

// Config controls whether a recovered panic is logged and whether the
// stack trace is included.
type Config struct {
	Log        hostlog.Logger
	StackTrace bool
}

// Option mutates a Config.
type Option func(*Config)

// WithLogger sets the logger used to report recovered panics.
func WithLogger(l hostlog.Logger) Option {
	return func(c *Config) { c.Log = l }
}

// WithStackTrace controls whether the recovered stack is attached to
// the log entry.
func WithStackTrace(v bool) Option {
	return func(c *Config) { c.StackTrace = v }
}

func defaultConfig() Config {
	return Config{Log: hostlog.Default(), StackTrace: true}
}

// Call invokes fn, recovering any panic into (result, true) being
// discarded and ok=false signalling the caller should respond with the
// fixed plugin-panicked message.
func Call(fn func() string, opts ...Option) (result string, ok bool) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	defer func() {
		if r := recover(); r != nil {
			ok = false
			fields := []any{"panic", r}
			if cfg.StackTrace {
				fields = append(fields, "stack", string(debug.Stack()))
			}
			cfg.Log.Error("plugin handler panicked", fields...)
		}
	}()

	result = fn()
	ok = true
	return result, ok
}
