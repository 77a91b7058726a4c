package app

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"restboard/internal/gateway/redis/order_changes"
	"restboard/internal/handlers/tasks/outbox_relay"
	"restboard/internal/pkg/config"
	"restboard/internal/pkg/factory/transition_policy"
	orderRepo "restboard/internal/repository/order"
	outboxRepo "restboard/internal/repository/outbox"
	changesService "restboard/internal/service/changes"
	feedService "restboard/internal/service/feed"
	orderService "restboard/internal/service/order"
	relayService "restboard/internal/service/relay"
	statisticsService "restboard/internal/service/statistics"
	"restboard/pkg/background"
	"restboard/pkg/logger"
	"restboard/pkg/querier"
	"restboard/pkg/retrier"
	"restboard/pkg/retrier/backoff_adapter"
	"restboard/pkg/tx"
)

const (
	feedReconnectInitialInterval = 500 * time.Millisecond
	feedReconnectMaxInterval     = 10 * time.Second
)

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideOutboxRepository(querier *querier.Querier) *outboxRepo.Repository {
	return outboxRepo.New(querier)
}

func provideTransitionPolicy(cfg *config.Config) (orderService.TransitionPolicy, error) {
	return transition_policy.New(cfg.Dashboard.TransitionPolicy)
}

func provideServiceOrder(
	repository orderService.Repository,
	outbox orderService.OutboxRepository,
	txManager orderService.TxManager,
	policy orderService.TransitionPolicy,
	cfg *config.Config,
) *orderService.Service {
	return orderService.New(
		repository,
		outbox,
		txManager,
		policy,
		cfg.Kafka.Topic,
		cfg.Dashboard.Location,
	)
}

func provideServiceStatistics(orders statisticsService.OrderLister, cfg *config.Config) *statisticsService.Service {
	return statisticsService.New(orders, cfg.Dashboard.Location)
}

// provideFeedRetrier переподключение ленты к redis: MaxElapsed 0 - до закрытия запроса.
func provideFeedRetrier(log logger.Logger, cfg *config.Config) *backoff_adapter.Retrier {
	retryLog := log.With(
		logger.NewField("component", "feed"),
	)

	return backoff_adapter.New(retrier.Config{
		InitialInterval: feedReconnectInitialInterval,
		MaxInterval:     feedReconnectMaxInterval,
		MaxElapsedTime:  cfg.Dashboard.FeedReconnectMaxElapsed,
		Randomization:   0.5,
		Multiplier:      2,
		Notify: func(err error, next time.Duration) {
			retryLog.Warn("feed subscribe failed, retrying",
				logger.NewField("error", err),
				logger.NewField("next", next),
			)
		},
	})
}

func provideOrderChangesSubscriber(log logger.Logger, client *redis.Client) *order_changes.Subscriber {
	return order_changes.NewSubscriber(log, client)
}

func provideOrderChangesPublisher(client *redis.Client) *order_changes.Publisher {
	return order_changes.NewPublisher(client)
}

func provideServiceFeed(
	log logger.Logger,
	subscriber feedService.Subscriber,
	lister feedService.OrderLister,
	retrier feedService.Retrier,
) *feedService.Service {
	return feedService.New(log, subscriber, lister, retrier)
}

func provideServiceRelay(
	outbox relayService.OutboxRepository,
	producer relayService.Producer,
	cfg *config.Config,
) *relayService.Service {
	return relayService.New(outbox, producer, cfg.Tasks.OutboxRelayBatch)
}

func provideServiceChanges(publisher changesService.Publisher) *changesService.Service {
	return changesService.New(publisher)
}

func provideOutboxRelayTask(relay outbox_relay.Relay, cfg *config.Config) *outbox_relay.OutboxRelay {
	return outbox_relay.NewOutboxRelay(relay, cfg.Tasks.OutboxRelayInterval, cfg.Tasks.OutboxRelayBatch)
}

func provideTaskList(
	outboxRelayTask *outbox_relay.OutboxRelay,
) []background.Task {
	return []background.Task{
		outboxRelayTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
