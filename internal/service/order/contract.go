//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"

	"restboard/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, orderCreate entities.OrderCreate) (*entities.Order, error)
	UpdateStatus(ctx context.Context, update entities.OrderStatusUpdate) (*entities.Order, error)
	GetByIDForUpdate(ctx context.Context, tenantID, orderID string) (*entities.Order, error)
	GetAllByTenant(ctx context.Context, tenantID string) ([]entities.Order, error)
}

type OutboxRepository interface {
	Insert(ctx context.Context, record entities.OutboxRecord) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransitionPolicy решает, допустим ли переход статуса.
// NeedsCurrent == false значит, что текущая строка не читается и запись идет вслепую.
type TransitionPolicy interface {
	NeedsCurrent() bool
	Allow(from, to entities.OrderStatusType) error
}
