package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks HTTP requests served by route template, method and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setcodec_http_requests_total",
			Help: "Total number of HTTP requests served (by route, method and status).",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "setcodec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms → ~4s
		},
		[]string{"route", "method"},
	)

	// Counts orders packed into serialized order data, per venue.
	OrdersSerialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setcodec_orders_serialized_total",
			Help: "Number of exchange orders serialized, by venue.",
		},
		[]string{"venue"},
	)

	SerializedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "setcodec_serialized_order_bytes",
			Help:    "Size of serialized order data in bytes.",
			Buckets: prometheus.ExponentialBuckets(128, 2, 12),
		},
	)

	// Tracks calls to the signing collaborator.
	SignerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setcodec_signer_requests_total",
			Help: "Signing requests sent to the configured signer.",
		},
		[]string{"result"}, // ok | error
	)

	SignerLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "setcodec_signer_latency_seconds",
			Help:    "Time taken by the signer to return a signature.",
			Buckets: prometheus.DefBuckets,
		},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setcodec_errors_total",
			Help: "Count of request errors by component and reason.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveDuration records the time since start on a histogram or histogram vector.
func ObserveDuration(v interface{}, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case prometheus.Histogram:
		metric.Observe(duration)
	}
}

func IncRequest(route, method, status string) {
	RequestsTotal.WithLabelValues(route, method, status).Inc()
}

func AddOrdersSerialized(venue string, n int) {
	OrdersSerialized.WithLabelValues(venue).Add(float64(n))
}

func ObserveSerializedBytes(n int) {
	SerializedBytes.Observe(float64(n))
}

func IncSignerRequest(result string) {
	SignerRequests.WithLabelValues(result).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
