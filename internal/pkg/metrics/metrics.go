// Package metrics defines and registers all custom Prometheus metrics for the
// course catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init via promauto; the /metrics route serves that registry.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coursehub/catalog-api/internal/core/domain"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_found" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "exists", "invalid", "forbidden" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registration attempts, by result.",
	},
	[]string{"result"},
)

// AccessDecisionsTotal counts access policy decisions.
// Labels:
//   - operation: the guarded operation (e.g. "delete_course")
//   - decision: "allow", "unauthorized" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access policy decisions, by operation and outcome.",
	},
	[]string{"operation", "decision"},
)

// ── Course metrics ────────────────────────────────────────────────────────────

// CourseMutationsTotal counts successful course writes.
// Label:
//   - operation: "create_course", "update_course" or "delete_course"
var CourseMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "course_mutations_total",
		Help:      "Total number of successful course mutations.",
	},
	[]string{"operation"},
)

// CourseCacheTotal counts read-through cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CourseCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "course_cache_total",
		Help:      "Total number of course cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests from routing to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ObserveDecision records the outcome of an access policy check.
func ObserveDecision(op domain.Operation, err error) {
	AccessDecisionsTotal.WithLabelValues(string(op), DecisionLabel(err)).Inc()
}

// DecisionLabel maps a policy result to its metric label.
func DecisionLabel(err error) string {
	switch {
	case err == nil:
		return "allow"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "forbidden"
	}
}
