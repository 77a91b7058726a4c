package rate_limiter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RejectedTotal scope: tenant - лимит тенанта из пути, addr - лимит по адресу клиента.
var RejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "restboard",
		Subsystem: "http",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected with 429 by the per-key token bucket",
	},
	[]string{"route", "scope"},
)
