package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"restboard/internal/pkg/config"
	"restboard/pkg/logger"
	"restboard/pkg/retrier"
	"restboard/pkg/retrier/backoff_adapter"
)

const (
	// ленты держат соединения только на время bulk fetch, основной потребитель - PATCH статуса
	maxConns          = 20
	minConns          = 2
	maxConnLifetime   = time.Hour
	healthCheckPeriod = 30 * time.Second
	applicationName   = "restboard"

	pingInitialInterval = 5 * time.Second
	pingMaxInterval     = 30 * time.Second
)

// NewConnPool пул к хранилищу заказов. Ждет базу с backoff, пока она поднимается рядом в compose.
func NewConnPool(ctx context.Context, log logger.Logger, cfg *config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(newDsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.HealthCheckPeriod = healthCheckPeriod
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}

	dbLog := log.With(
		logger.NewField("host", cfg.Host),
		logger.NewField("port", cfg.Port),
		logger.NewField("db", cfg.DBName),
	)

	startup := backoff_adapter.New(retrier.StartupConfig(pingInitialInterval, pingMaxInterval))
	if err := retrier.Await(ctx, startup, dbLog, "Database", pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// newDsn экранирует пароль: в compose он часто содержит спецсимволы.
func newDsn(cfg *config.Database) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return dsn.String()
}
