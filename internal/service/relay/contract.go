//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=relay_test
package relay

import (
	"context"

	"restboard/internal/entities"
)

type OutboxRepository interface {
	FetchPending(ctx context.Context, limit int) ([]entities.OutboxRecord, error)
	MarkSent(ctx context.Context, ids []int64) (int64, error)
}

type Producer interface {
	Send(ctx context.Context, record entities.OutboxRecord) error
}
