// Package metrics defines the domain Prometheus metrics of the user service:
// account mutations, authentication outcomes and password hashing cost.
//
// Metrics register with the default Prometheus registry on package init via
// promauto. HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "users"

// ── User metrics ──────────────────────────────────────────────────────────────

// UserOperationsTotal counts user record operations.
// Labels:
//   - operation: "create", "update", "delete"
//   - result: "ok" or "error"
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "operations_total",
		Help:      "Total number of user record mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthAttemptsTotal counts authentication attempts.
// Label:
//   - outcome: "success", "unknown_email", "wrong_password" or "error"
//
// The outcome label is server-side only; clients see the same response for
// unknown_email and wrong_password.
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PasswordHashDuration measures bcrypt work per call.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing and verification.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
