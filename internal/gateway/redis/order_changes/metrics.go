package order_changes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_order_changes_published_total",
			Help: "Total number of order change events published to Redis",
		},
		[]string{"type", "result"},
	)

	PublishReceivers = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "redis_order_changes_receivers",
		Help:    "Number of subscribers that received a published order change",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})

	ReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_order_changes_received_total",
			Help: "Total number of order change messages received from Redis subscriptions",
		},
		[]string{"result"},
	)
)
