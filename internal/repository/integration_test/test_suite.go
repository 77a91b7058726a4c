package integration_test

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"restboard/internal/pkg/config"
	"restboard/internal/pkg/migrations"
	"restboard/internal/pkg/postgres"
	"restboard/pkg/logger/zap_adapter"
	"restboard/pkg/querier"
)

const statementTimeout = 2 * time.Second

var (
	shared     *querier.Querier
	sharedOnce sync.Once
)

// databaseFromEnv POSTGRES_* задаются окружением запуска интеграционных тестов.
func databaseFromEnv() *config.Database {
	return &config.Database{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}

// GetQuerier один пул на пакет тестов, схема накатывается goose при первом обращении.
func GetQuerier() *querier.Querier {
	sharedOnce.Do(func() {
		ctx := context.Background()
		testLog := zap_adapter.NewFromZap(zap.NewNop())

		pool, err := postgres.NewConnPool(ctx, testLog, databaseFromEnv())
		if err != nil {
			log.Fatalf("integration database: %v", err)
		}
		if err := migrations.Up(ctx, testLog, pool); err != nil {
			log.Fatalf("integration migrations: %v", err)
		}

		shared = querier.New(pool, pgxv5.DefaultCtxGetter)
	})
	return shared
}

// SetupDB выполняет seed, пустая строка - только подключение.
func SetupDB(t *testing.T, seedSQL string) {
	t.Helper()

	q := GetQuerier()
	if seedSQL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), statementTimeout)
	defer cancel()

	_, err := q.Exec(ctx, seedSQL)
	require.NoError(t, err, "seed")
}

// TeardownDB чистит таблицы заказов и outbox между тестами.
func TeardownDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), statementTimeout)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `TRUNCATE TABLE order_outbox, orders RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncate")
}
