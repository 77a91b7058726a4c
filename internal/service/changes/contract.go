//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=changes_test
package changes

import (
	"context"

	"restboard/internal/entities"
)

type Publisher interface {
	Publish(ctx context.Context, event entities.ChangeEvent) error
}
