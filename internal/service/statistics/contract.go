//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=statistics_test
package statistics

import (
	"context"

	"restboard/internal/entities"
)

type OrderLister interface {
	ListOrders(ctx context.Context, tenantID string) ([]entities.Order, error)
}
