//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=statistics_get_test
package statistics_get

import (
	"context"

	"restboard/internal/entities"
	"restboard/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	GetStatistics(ctx context.Context, tenantID, timeRange string) (entities.Statistics, error)
}
