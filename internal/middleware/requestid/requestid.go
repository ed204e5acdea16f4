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

// Package requestid attaches a unique identifier to every request the
// host serves, stored in the request context and echoed back to the
// caller.
package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type contextKey struct{}

// Generator produces a new request identifier.
type Generator func() string

// Config controls header naming, ID generation, and whether a
// client-supplied ID is honored.
type Config struct {
	HeaderName    string
	Generator     Generator
	AllowClientID bool
}

// Option mutates a Config.
type Option func(*Config)

// WithHeaderName overrides the default "X-Request-Id" header.
func WithHeaderName(name string) Option {
	return func(c *Config) { c.HeaderName = name }
}

// WithGenerator overrides the default UUIDv7 generator.
func WithGenerator(g Generator) Option {
	return func(c *Config) { c.Generator = g }
}

// WithAllowClientID controls whether an inbound request's own header
// value is trusted instead of generating a new ID.
func WithAllowClientID(v bool) Option {
	return func(c *Config) { c.AllowClientID = v }
}

// WithULID swaps the default UUIDv7 generator for a monotonic ULID.
func WithULID() Option {
	return func(c *Config) { c.Generator = generateULID }
}

func defaultConfig() Config {
	return Config{HeaderName: "X-Request-Id", Generator: generateUUIDv7, AllowClientID: true}
}

func generateUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

var ulidMu sync.Mutex
var ulidEntropy = ulid.Monotonic(rand.Reader, 0)

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return ulid.MustNew(ulid.Now(), ulidEntropy).String()
}

// Middleware wraps next, attaching a request ID to the request context
// and response header.
func Middleware(next http.Handler, opts ...Option) http.Handler {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cfg.AllowClientID {
			id = r.Header.Get(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}
		w.Header().Set(cfg.HeaderName, id)
		ctx := context.WithValue(r.Context(), contextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Get retrieves the request ID stored in ctx, or "" if none.
func Get(ctx context.Context) string {
	v, _ := ctx.Value(contextKey{}).(string)
	return v
}
