//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"restboard/internal/gateway/redis/order_changes"
	"restboard/internal/handlers/kafka-consumer/order_changed"
	"restboard/internal/handlers/tasks/outbox_relay"
	"restboard/internal/pkg/config"
	"restboard/internal/pkg/kafka"
	orderRepo "restboard/internal/repository/order"
	outboxRepo "restboard/internal/repository/outbox"
	changesService "restboard/internal/service/changes"
	feedService "restboard/internal/service/feed"
	orderService "restboard/internal/service/order"
	relayService "restboard/internal/service/relay"
	statisticsService "restboard/internal/service/statistics"
	"restboard/pkg/logger"
	"restboard/pkg/retrier/backoff_adapter"
	"restboard/pkg/tx"
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	redisClient *redis.Client,
	producer *kafka.Producer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideOrderRepository,
		provideOutboxRepository,

		provideTransitionPolicy,
		provideServiceOrder,
		provideServiceStatistics,

		provideFeedRetrier,
		provideOrderChangesSubscriber,
		provideServiceFeed,

		provideServiceRelay,
		provideOutboxRelayTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceOrder), new(*orderService.Service)),
		wire.Bind(new(ServiceStatistics), new(*statisticsService.Service)),
		wire.Bind(new(ServiceFeed), new(*feedService.Service)),

		wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(orderService.OutboxRepository), new(*outboxRepo.Repository)),
		wire.Bind(new(orderService.TxManager), new(*tx.Manager)),

		wire.Bind(new(statisticsService.OrderLister), new(*orderService.Service)),

		wire.Bind(new(feedService.Subscriber), new(*order_changes.Subscriber)),
		wire.Bind(new(feedService.OrderLister), new(*orderService.Service)),
		wire.Bind(new(feedService.Retrier), new(*backoff_adapter.Retrier)),

		wire.Bind(new(relayService.OutboxRepository), new(*outboxRepo.Repository)),
		wire.Bind(new(relayService.Producer), new(*kafka.Producer)),
		wire.Bind(new(outbox_relay.Relay), new(*relayService.Service)),
	)
	return &Application{}, nil
}

// InitializeWorkerApp для Kafka воркера (cmd/worker-order-changes)
func InitializeWorkerApp(
	redisClient *redis.Client,
) (*WorkerApp, error) {
	wire.Build(
		provideOrderChangesPublisher,
		provideServiceChanges,

		wire.Struct(new(WorkerApp), "*"),

		wire.Bind(new(changesService.Publisher), new(*order_changes.Publisher)),
		wire.Bind(new(order_changed.Service), new(*changesService.Service)),
	)
	return nil, nil
}
