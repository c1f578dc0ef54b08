/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exposes the Prometheus collectors for repository
// operations and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kanban"

// Outcomes recorded for repository operations.
const (
	OutcomeOK              = "ok"
	OutcomeNotFound        = "not_found"
	OutcomeStorageError    = "storage_error"
	OutcomeConnectionError = "connection_error"
)

var (
	registry = prometheus.NewRegistry()

	repositoryOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Repository operations by entity kind, operation and outcome.",
	}, []string{"kind", "op", "outcome"})

	repositoryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Repository operation latency including session acquisition.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "op", "outcome"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	registry.MustRegister(
		repositoryOperations,
		repositoryLatency,
		httpRequests,
		httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveOperation records one repository call.
func ObserveOperation(kind, op, outcome string, elapsed time.Duration) {
	repositoryOperations.WithLabelValues(kind, op, outcome).Inc()
	repositoryLatency.WithLabelValues(kind, op, outcome).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request. route is the registered
// path pattern, not the raw URI.
func ObserveRequest(method, route string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
