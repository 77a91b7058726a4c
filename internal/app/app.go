package app

import (
	"restboard/internal/handlers/kafka-consumer/order_changed"
	"restboard/internal/handlers/rest/order_post"
	"restboard/internal/handlers/rest/order_status_patch"
	"restboard/internal/handlers/rest/orders_get"
	"restboard/internal/handlers/rest/orders_stream_get"
	"restboard/internal/handlers/rest/ping_get"
	"restboard/internal/handlers/rest/statistics_get"
	"restboard/internal/handlers/rest/statistics_stream_get"
	"restboard/pkg/background"
)

type Application struct {
	ServiceOrder      ServiceOrder
	ServiceStatistics ServiceStatistics
	ServiceFeed       ServiceFeed
	BackgroundWorkers *background.Worker
}

type ServiceOrder interface {
	orders_get.Service
	order_post.Service
	order_status_patch.Service
	orders_stream_get.Queue
	ping_get.Clock
}

type ServiceStatistics interface {
	statistics_get.Service
	statistics_stream_get.Statistics
}

type ServiceFeed interface {
	orders_stream_get.Feed
	statistics_stream_get.Feed
}

type WorkerApp struct {
	ServiceChanges order_changed.Service
}
