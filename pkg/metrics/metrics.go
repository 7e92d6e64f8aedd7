// Package metrics defines and registers all custom Prometheus metrics for
// the driving-school API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "onless"

// RegistrationsTotal counts accounts created through the register flow.
// Label:
//   - role: the role the account was created with (e.g. "student")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh attempts by outcome.
// Label:
//   - result: "success" or "rejected"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refresh attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts bearer-token resolutions that failed.
// Label:
//   - reason: "malformed", "expired", "bad_subject", "user_not_found", or "inactive"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed bearer-token resolutions, by reason.",
	},
	[]string{"reason"},
)

// VerificationNoticesTotal counts verification notices handled by the
// background dispatcher workers.
// Label:
//   - result: "processed" or "failed"
var VerificationNoticesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_notices_total",
		Help:      "Total number of verification notices processed, by result.",
	},
	[]string{"result"},
)
