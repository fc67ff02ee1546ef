package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result
	// (success|bad_password|unknown_user).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrdotel_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// TokenVerifications counts bearer token verifications at the middleware
	// by outcome (accepted|rejected|anonymous).
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrdotel_token_verifications_total",
			Help: "Total number of bearer token verification attempts",
		},
		[]string{"outcome"},
	)

	// MailDispatches counts fire-and-forget notification deliveries by result.
	MailDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrdotel_mail_dispatches_total",
			Help: "Total number of asynchronous mail dispatches",
		},
		[]string{"kind", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metrdotel_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
