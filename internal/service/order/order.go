package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"restboard/internal/entities"
	"restboard/internal/pkg/events"
)

// listFetchTimeout потолок общего bulk fetch, отвязанного от отмены отдельного вызывающего.
const listFetchTimeout = 10 * time.Second

type Service struct {
	repository Repository
	outbox     OutboxRepository
	txManager  TxManager
	policy     TransitionPolicy
	topic      string
	location   *time.Location
	now        func() time.Time

	listGroup singleflight.Group
}

type Option func(*Service)

// WithClock подменяет источник времени, используется в тестах очереди.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(
	repository Repository,
	outbox OutboxRepository,
	txManager TxManager,
	policy TransitionPolicy,
	topic string,
	location *time.Location,
	opts ...Option,
) *Service {
	if location == nil {
		location = time.UTC
	}

	s := &Service{
		repository: repository,
		outbox:     outbox,
		txManager:  txManager,
		policy:     policy,
		topic:      topic,
		location:   location,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now текущее время в таймзоне дашборда.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

// UpdateStatus ставит заказу статус и возвращает обновленную строку.
// Ошибки: ErrOrderNotFound, ErrTransitionNotAllowed, ErrStore (с причиной внутри), ошибки валидации.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, orderID string, status entities.OrderStatusType) (*entities.Order, error) {
	if !isValidID(tenantID) {
		return nil, ErrInvalidTenantID
	}
	if !isValidID(orderID) {
		return nil, ErrInvalidOrderID
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var updated *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var current *entities.Order
		if s.policy.NeedsCurrent() {
			var err error
			current, err = s.repository.GetByIDForUpdate(ctx, tenantID, orderID)
			if err != nil {
				return fmt.Errorf("get current order: %w", err)
			}
			if err := s.policy.Allow(current.Status, status); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.repository.UpdateStatus(ctx, entities.OrderStatusUpdate{
			TenantID: tenantID,
			OrderID:  orderID,
			Status:   status,
		})
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		return s.enqueue(ctx, entities.ChangeEvent{
			Type:     entities.ChangeUpdate,
			TenantID: tenantID,
			New:      updated,
			Old:      current,
		})
	})
	if err != nil {
		StatusTransitionsTotal.WithLabelValues(status.String(), resultLabel(err)).Inc()
		return nil, classify("update order status", err)
	}

	StatusTransitionsTotal.WithLabelValues(status.String(), "ok").Inc()
	return updated, nil
}

// PlaceOrder вставка заказа из checkout. Сумму не пересчитываем, только проверяем что это число.
func (s *Service) PlaceOrder(ctx context.Context, orderCreate entities.OrderCreate) (*entities.Order, error) {
	if !isValidID(orderCreate.TenantID) {
		return nil, ErrInvalidTenantID
	}
	if strings.TrimSpace(orderCreate.CustomerName) == "" {
		return nil, ErrInvalidCustomer
	}
	if !isValidLines(orderCreate.Lines) {
		return nil, ErrInvalidOrderLines
	}
	if !isValidTotalAmount(orderCreate.TotalAmount) {
		return nil, ErrInvalidTotalAmount
	}

	orderCreate.ID = uuid.NewString()
	orderCreate.TotalAmount = strings.TrimSpace(orderCreate.TotalAmount)

	var created *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repository.Create(ctx, orderCreate)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		return s.enqueue(ctx, entities.ChangeEvent{
			Type:     entities.ChangeInsert,
			TenantID: created.TenantID,
			New:      created,
		})
	})
	if err != nil {
		OrdersPlacedTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, classify("place order", err)
	}

	OrdersPlacedTotal.WithLabelValues("ok").Inc()
	return created, nil
}

// ListOrders bulk fetch заказов тенанта. Одновременные запросы одного тенанта
// (несколько открытых дашбордов, статистика) схлопываются в один поход в БД.
func (s *Service) ListOrders(ctx context.Context, tenantID string) ([]entities.Order, error) {
	if !isValidID(tenantID) {
		return nil, ErrInvalidTenantID
	}

	// общий fetch не отменяется вместе с первым вызвавшим, каждый ждет его со своим ctx
	ch := s.listGroup.DoChan(tenantID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listFetchTimeout)
		defer cancel()
		return s.repository.GetAllByTenant(fetchCtx, tenantID)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list orders: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, classify("list orders", res.Err)
		}
		// результат singleflight общий для всех ожидающих, каждый получает свою копию
		return slices.Clone(res.Val.([]entities.Order)), nil
	}
}

// Queue рабочая очередь тенанта на текущий момент.
func (s *Service) Queue(ctx context.Context, tenantID, statusFilter string) ([]entities.Order, error) {
	filter, err := ParseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	orders, err := s.ListOrders(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ActiveQueue(orders, filter, s.Now()), nil
}

// FilterQueue применяет правило очереди к уже загруженному списку (снимок ленты).
func (s *Service) FilterQueue(orders []entities.Order, statusFilter string) []entities.Order {
	return ActiveQueue(orders, statusFilter, s.Now())
}

func (s *Service) enqueue(ctx context.Context, event entities.ChangeEvent) error {
	payload, err := events.Encode(event, s.now())
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	err = s.outbox.Insert(ctx, entities.OutboxRecord{
		EventID: uuid.NewString(),
		Topic:   s.topic,
		Key:     event.TenantID,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("enqueue change event: %w", err)
	}
	return nil
}

// classify оставляет доменные ошибки как есть, остальное заворачивает в ErrStore.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrTransitionNotAllowed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, ErrTransitionNotAllowed):
		return "rejected"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "store_error"
	}
}
