// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serper_http_requests_total",
			Help: "Total number of HTTP requests sent to the search API",
		},
		[]string{"method", "status"},
	)

	HTTPRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serper_http_request_errors_total",
			Help: "Total number of failed HTTP requests by error code",
		},
		[]string{"method", "error_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "serper_http_request_duration_seconds",
			Help:    "Duration of HTTP round trips in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "serper_http_requests_in_flight",
			Help: "Number of HTTP requests currently in flight",
		},
	)

	ConcurrentPermitsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "serper_concurrent_permits_in_use",
			Help: "Number of semaphore permits held by concurrent searches",
		},
	)
)

// ObserveRequest records one completed round trip. status is 0 when no
// response was received.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	HTTPRequestsTotal.WithLabelValues(method, label).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func ObserveError(method, code string) {
	HTTPRequestErrors.WithLabelValues(method, code).Inc()
}
