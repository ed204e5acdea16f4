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

package hostrouter

import (
	"io"
	"net/http"
	"time"

	"rivaas.dev/pluginhost/internal/abi"
	"rivaas.dev/pluginhost/internal/hostmetrics"
)

const pluginPanickedBody = "Plugin panicked"

// wrapMethodSet turns a MethodSet into an http.Handler that dispatches
// by request method, offloading each invocation to pool and catching
// panics as a fixed 500 response. metrics may be nil, in which case
// request observation is skipped.
func wrapMethodSet(path string, ms abi.MethodSet, pool *Pool, metrics *hostmetrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var handlerFn func() string

		switch r.Method {
		case http.MethodGet:
			if ms.Get == nil {
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			handlerFn = func() string { return ms.Get() }
		case http.MethodDelete:
			if ms.Delete == nil {
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			handlerFn = func() string { return ms.Delete() }
		case http.MethodPost, http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}
			if r.Method == http.MethodPost {
				if ms.Post == nil {
					http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
					return
				}
				handlerFn = func() string { return ms.Post(body) }
			} else {
				if ms.Put == nil {
					http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
					return
				}
				handlerFn = func() string { return ms.Put(body) }
			}
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		start := time.Now()
		raw, ok := pool.Run(r.Context(), handlerFn)
		if !ok {
			if metrics != nil {
				metrics.ObservePluginPanic()
				metrics.ObserveRequest(path, http.StatusInternalServerError, time.Since(start))
			}
			http.Error(w, pluginPanickedBody, http.StatusInternalServerError)
			return
		}

		resp := abi.ParseResponse(raw)
		if metrics != nil {
			metrics.ObserveRequest(path, resp.Status, time.Since(start))
		}
		resp.WriteTo(w)
	})
}
