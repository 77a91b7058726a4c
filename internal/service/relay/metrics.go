package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RelayedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_relayed_total",
			Help: "Total number of outbox events handed to Kafka",
		},
		[]string{"result"},
	)

	PendingBatchSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_pending_batch_size",
		Help: "Number of pending outbox events fetched by the last relay run",
	})
)
