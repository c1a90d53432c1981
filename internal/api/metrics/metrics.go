// Package metrics defines and registers all custom Prometheus metrics for
// the social API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry at
// init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts signed tokens that were handed to clients.
// Label:
//   - kind: "access", "refresh", "email_verify", "forgot_password"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by token kind.",
	},
	[]string{"kind"},
)

// TokenVerificationsTotal counts token verification attempts.
// Labels:
//   - kind: token kind the verification ran against
//   - result: "ok", "invalid" (signature/expiry), "revoked" (store miss)
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of token verification attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// TokensRotatedTotal counts successful refresh-token rotations.
var TokensRotatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_rotated_total",
		Help:      "Total number of refresh tokens rotated into fresh pairs.",
	},
)

// SessionsRevokedTotal counts revoke-all operations (logout).
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of all-device session revocations.",
	},
)

// ── Verification flow metrics ─────────────────────────────────────────────────

// EmailVerificationsTotal counts email-verification consumptions.
// Label:
//   - result: "ok", "already_verified", "invalid"
var EmailVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_verifications_total",
		Help:      "Total number of email verification attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts completed forgot-password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of passwords reset through the recovery flow.",
	},
)

// ── Visibility metrics ────────────────────────────────────────────────────────

// RestrictedReadsDeniedTotal counts rejected reads of circle-only tweets.
// Label:
//   - reason: "login_required" or "not_in_circle"
var RestrictedReadsDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restricted_reads_denied_total",
		Help:      "Total number of restricted-audience reads denied, by reason.",
	},
	[]string{"reason"},
)

// ── Mail queue metrics ────────────────────────────────────────────────────────

// EmailsQueuedTotal counts emails accepted for asynchronous delivery.
// Label:
//   - kind: "verify_account" or "reset_password"
var EmailsQueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_queued_total",
		Help:      "Total number of emails enqueued for delivery, by template kind.",
	},
	[]string{"kind"},
)
