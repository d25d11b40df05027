package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route template, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route template and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Auth flow outcomes (register, verify, reset, login, ...).",
	}, []string{"event", "result"})
)

// Auth отмечает исход auth-операции.
func Auth(event, result string) {
	AuthEvents.WithLabelValues(event, result).Inc()
}
