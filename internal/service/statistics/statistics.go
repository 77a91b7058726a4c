package statistics

import (
	"context"
	"fmt"
	"time"

	"restboard/internal/entities"
)

type Service struct {
	orders   OrderLister
	location *time.Location
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(orders OrderLister, location *time.Location, opts ...Option) *Service {
	if location == nil {
		location = time.UTC
	}

	s := &Service{
		orders:   orders,
		location: location,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStatistics загружает заказы тенанта и считает снимок за период.
func (s *Service) GetStatistics(ctx context.Context, tenantID, timeRange string) (entities.Statistics, error) {
	r, err := ParseTimeRange(timeRange)
	if err != nil {
		return entities.Statistics{}, err
	}

	orders, err := s.orders.ListOrders(ctx, tenantID)
	if err != nil {
		return entities.Statistics{}, fmt.Errorf("load orders: %w", err)
	}

	return Aggregate(orders, r, s.now().In(s.location)), nil
}

// Compute снимок по уже загруженному списку (например, из ленты).
func (s *Service) Compute(orders []entities.Order, timeRange entities.TimeRange) entities.Statistics {
	return Aggregate(orders, timeRange, s.now().In(s.location))
}
