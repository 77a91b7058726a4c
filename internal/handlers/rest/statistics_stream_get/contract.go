//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=statistics_stream_get_test
package statistics_stream_get

import (
	"context"

	"restboard/internal/entities"
	"restboard/internal/service/feed"
	"restboard/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Feed interface {
	Run(ctx context.Context, tenantID string, onChange feed.OnChangeFn) error
}

type Statistics interface {
	Compute(orders []entities.Order, timeRange entities.TimeRange) entities.Statistics
}
