//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_statuses_get_test
package order_statuses_get

import (
	"restboard/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
