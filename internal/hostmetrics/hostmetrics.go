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

// Package hostmetrics exposes Prometheus counters and histograms for
// request handling, registered once per process and served at
// /metrics via promhttp.
package hostmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide collectors. Construct once with New
// and share it across the router and admin surfaces.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	guardRejections *prometheus.CounterVec
	pluginPanics    prometheus.Counter
	reloadsTotal    *prometheus.CounterVec
}

// New registers every collector against reg. Pass
// prometheus.NewRegistry() for isolated tests, or
// prometheus.DefaultRegisterer for the process default.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pluginhost_requests_total",
			Help: "Total requests dispatched to a plugin handler, by path and status.",
		}, []string{"path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pluginhost_request_duration_seconds",
			Help:    "Plugin handler latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		guardRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pluginhost_guard_rejections_total",
			Help: "Requests rejected by a guard, by guard name.",
		}, []string{"guard"}),
		pluginPanics: factory.NewCounter(prometheus.CounterOpts{
			Name: "pluginhost_plugin_panics_total",
			Help: "Plugin handler invocations that recovered from a panic.",
		}),
		reloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pluginhost_reloads_total",
			Help: "Live Supervisor reload passes, by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records one dispatched request's outcome and latency.
func (m *Metrics) ObserveRequest(path string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// ObserveGuardRejection records one guard turning away a request.
func (m *Metrics) ObserveGuardRejection(guard string) {
	m.guardRejections.WithLabelValues(guard).Inc()
}

// ObservePluginPanic records one recovered plugin panic.
func (m *Metrics) ObservePluginPanic() {
	m.pluginPanics.Inc()
}

// ObserveReload records one Live Supervisor reload outcome ("ok" or "error").
func (m *Metrics) ObserveReload(outcome string) {
	m.reloadsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the text exposition format for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
