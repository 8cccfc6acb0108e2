// Package metrics defines and registers all custom Prometheus metrics for
// the identity API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// RegistrationsTotal counts account registrations by outcome.
// Label:
//   - result: "created", "duplicate", "invalid_phone", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ConfirmationsTotal counts account confirmation attempts by outcome.
// Label:
//   - result: "confirmed", "already_confirmed", "invalid", "error"
var ConfirmationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmations_total",
		Help:      "Total number of account confirmation attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "unconfirmed", "invalid_credentials", "not_found", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token exchanges by outcome.
// Label:
//   - result: "short_circuit" (valid access cookie returned unchanged),
//     "minted" (new access token issued), "unauthorized"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of token refresh requests, by result.",
	},
	[]string{"result"},
)

// PasswordFlowsTotal counts password recovery and change operations.
// Label:
//   - flow: "forgot", "reset", "change"
//   - result: "success", "rejected", "error"
var PasswordFlowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_flows_total",
		Help:      "Total number of password recovery/change operations, by flow and result.",
	},
	[]string{"flow", "result"},
)

// EmailsTotal counts transactional email deliveries by outcome.
// Label:
//   - result: "sent", "failed", "dropped" (queue full)
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of transactional email deliveries, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - path: the route that was throttled
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by path.",
	},
	[]string{"path"},
)
