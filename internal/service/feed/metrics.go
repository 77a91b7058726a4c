package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveFeeds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feed_active",
		Help: "Number of running order feeds",
	})

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_events_total",
			Help: "Total number of change events received by feeds",
		},
		[]string{"type", "result"},
	)

	ReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_reconnects_total",
		Help: "Total number of feed resubscriptions after a dropped subscription",
	})
)
