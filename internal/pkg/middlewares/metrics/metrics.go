package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, streams excluded",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// OpenStreams открытые SSE-стримы дашбордов, по одной ленте заказов на стрим.
	OpenStreams = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_open_streams",
			Help: "Server-sent event streams currently open",
		},
		[]string{"route"},
	)

	StreamLifetime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_stream_lifetime_seconds",
			Help:    "How long a dashboard kept its event stream open",
			Buckets: []float64{1, 10, 60, 300, 900, 3600, 4 * 3600, 12 * 3600},
		},
		[]string{"route"},
	)
)
