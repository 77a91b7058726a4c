//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=feed_test
package feed

import (
	"context"

	"restboard/internal/entities"
	"restboard/pkg/logger"
)

// Subscription активная подписка на изменения заказов одного тенанта.
// Закрытый Events() означает, что подписка оборвалась.
type Subscription interface {
	Events() <-chan entities.ChangeEvent
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, tenantID string) (Subscription, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context, tenantID string) ([]entities.Order, error)
}

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
