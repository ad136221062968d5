package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitepages", Name: "http_requests_total", Help: "Handled HTTP requests by route, method and status."},
		[]string{"route", "method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "sitepages", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"route"},
	)
	PageMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitepages", Name: "page_mutations_total", Help: "Page writes by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitepages", Name: "login_attempts_total", Help: "Admin login attempts by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(PageMutations)
	reg.MustRegister(LoginAttempts)
}
