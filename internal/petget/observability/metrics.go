// Package observability provides the Prometheus metrics and HTTP middleware
// for monitoring petget.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petget_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petget_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// AuthOutcomesTotal counts the outcome of the request authentication stage.
	AuthOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petget_auth_outcomes_total",
			Help: "Request authentication outcomes",
		},
		[]string{"outcome"},
	)

	// LoginsTotal counts login attempts by result.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petget_logins_total",
			Help: "Login attempts",
		},
		[]string{"result"},
	)

	// TenantGuardEventsTotal counts what the tenant guard stamped or refused.
	TenantGuardEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petget_tenant_guard_events_total",
			Help: "Tenant guard events",
		},
		[]string{"event"},
	)

	// RateLimitRejectedTotal counts requests rejected by a rate limit profile.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petget_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"profile"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthOutcomesTotal,
		LoginsTotal,
		TenantGuardEventsTotal,
		RateLimitRejectedTotal,
	)
}

// RegisterRevocationGauge exposes the size of the revocation set. size is
// called on every scrape.
func RegisterRevocationGauge(reg prometheus.Registerer, size func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "petget_revocations_held",
			Help: "Revoked tokens currently remembered",
		},
		func() float64 { return float64(size()) },
	))
}
