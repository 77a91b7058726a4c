package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"restboard/internal/pkg/config"
	"restboard/pkg/logger"
	"restboard/pkg/retrier"
	"restboard/pkg/retrier/backoff_adapter"
)

const (
	poolSize     = 50
	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second

	pingInitialInterval = 1 * time.Second
	pingMaxInterval     = 15 * time.Second
)

// NewClient клиент для pub/sub изменений заказов.
// Каждая подписка ленты держит отдельное соединение вне пула команд.
func NewClient(ctx context.Context, log logger.Logger, cfg *config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	redisLog := log.With(
		logger.NewField("addr", cfg.Addr),
		logger.NewField("db", cfg.DB),
	)

	startup := backoff_adapter.New(retrier.StartupConfig(pingInitialInterval, pingMaxInterval))
	err := retrier.Await(ctx, startup, redisLog, "Redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		closeErr := client.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("redis connection: %w (failed to close: %w)", err, closeErr)
		}
		return nil, fmt.Errorf("redis connection: %w", err)
	}

	return client, nil
}
