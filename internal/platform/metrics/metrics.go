package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	OTPIssued        prometheus.Counter
	OTPVerifications *prometheus.CounterVec
	RateLimited      prometheus.Counter
	Logins           prometheus.Counter
	AuthFailures     prometheus.Counter
	ContactMessages  prometheus.Counter
	EndpointLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		OTPIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "folio_otp_issued_total",
			Help: "Total number of one-time passwords issued",
		}),
		OTPVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_otp_verifications_total",
			Help: "Total number of OTP verification attempts, labeled by outcome",
		}, []string{"result"}),
		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "folio_otp_rate_limited_total",
			Help: "Total number of OTP requests rejected by the rate limiter",
		}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "folio_admin_logins_total",
			Help: "Total number of successful admin logins",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "folio_auth_failures_total",
			Help: "Total number of rejected requests on protected routes",
		}),
		ContactMessages: promauto.NewCounter(prometheus.CounterOpts{
			Name: "folio_contact_messages_total",
			Help: "Total number of contact form messages relayed",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
