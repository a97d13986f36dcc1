// Package metrics defines the Prometheus metrics exported by the API and the
// worker. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workops"

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern, e.g. /api/v1/orgs/{orgId}/projects
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AccessDecisionsTotal counts organization access decisions.
// Label:
//   - outcome: allow, not_member or insufficient_role
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Organization access decisions by outcome.",
	},
	[]string{"outcome"},
)

// ActivityRecordedTotal counts activity entries persisted or enqueued.
// Label:
//   - sink: queue or db
var ActivityRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_recorded_total",
		Help:      "Activity entries handed to a sink.",
	},
	[]string{"sink"},
)

// ActivityPurgedTotal counts activity entries removed by retention.
var ActivityPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_purged_total",
		Help:      "Activity entries deleted by the retention job.",
	},
)
