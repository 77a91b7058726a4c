package changes

import (
	"context"
	"fmt"

	"restboard/internal/entities"
)

type Service struct {
	publisher Publisher
}

func New(publisher Publisher) *Service {
	return &Service{
		publisher: publisher,
	}
}

// Publish разносит событие подписчикам тенанта.
// Строка заказа в событии должна принадлежать тому же тенанту, что и событие.
func (s *Service) Publish(ctx context.Context, event entities.ChangeEvent) error {
	if err := validate(event); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s event for order %s: %w", event.Type, event.OrderID(), err)
	}
	return nil
}

func validate(event entities.ChangeEvent) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
	if event.TenantID == "" {
		return fmt.Errorf("%w: empty tenant", ErrInvalidEvent)
	}
	if event.OrderID() == "" {
		return fmt.Errorf("%w: empty order id", ErrInvalidEvent)
	}

	for _, row := range []*entities.Order{event.New, event.Old} {
		if row != nil && row.TenantID != "" && row.TenantID != event.TenantID {
			return fmt.Errorf("%w: event %s, row %s", ErrTenantMismatch, event.TenantID, row.TenantID)
		}
	}
	return nil
}
