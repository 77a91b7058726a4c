package feed

import (
	"context"
	"errors"
	"fmt"

	"restboard/internal/entities"
	"restboard/pkg/logger"
)

// OnChangeFn получает снимок списка после начальной загрузки и после каждого примененного события.
type OnChangeFn func(orders []entities.Order)

type Service struct {
	log        handlerLogger
	subscriber Subscriber
	lister     OrderLister
	retrier    Retrier
}

func New(log handlerLogger, subscriber Subscriber, lister OrderLister, retrier Retrier) *Service {
	return &Service{
		log:        log,
		subscriber: subscriber,
		lister:     lister,
		retrier:    retrier,
	}
}

// Run держит живую копию заказов тенанта до отмены ctx.
// Порядок: подписка, затем bulk fetch, затем события в порядке доставки.
// Оборванная подписка переоткрывается с backoff и после нее список перечитывается целиком.
func (s *Service) Run(ctx context.Context, tenantID string, onChange OnChangeFn) error {
	if tenantID == "" {
		return errors.New("feed: empty tenant id")
	}

	ActiveFeeds.Inc()
	defer ActiveFeeds.Dec()

	log := s.log.With(logger.NewField("tenant_id", tenantID))

	var list *List
	for {
		sub, err := s.subscribe(ctx, tenantID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("feed subscribe: %w", err)
		}

		list = s.sync(ctx, log, tenantID, list)
		onChange(list.Snapshot())

		dropped := s.consume(ctx, log, tenantID, sub, list, onChange)
		if err := sub.Close(); err != nil {
			log.Warn("close subscription", logger.NewField("error", err))
		}
		if !dropped {
			return nil
		}

		ReconnectsTotal.Inc()
		log.Warn("subscription dropped, reconnecting")
	}
}

func (s *Service) subscribe(ctx context.Context, tenantID string) (Subscription, error) {
	var sub Subscription
	err := s.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.subscriber.Subscribe(ctx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// sync bulk fetch. При ошибке первой загрузки список пустой, при ошибке ресинка остается прежним.
func (s *Service) sync(ctx context.Context, log handlerLogger, tenantID string, prev *List) *List {
	orders, err := s.lister.ListOrders(ctx, tenantID)
	if err != nil {
		log.Warn("feed fetch failed", logger.NewField("error", err))
		if prev != nil {
			return prev
		}
		return NewList(nil)
	}
	return NewList(orders)
}

// consume возвращает true, если подписка оборвалась, и false, если отменили ctx.
func (s *Service) consume(
	ctx context.Context,
	log handlerLogger,
	tenantID string,
	sub Subscription,
	list *List,
	onChange OnChangeFn,
) bool {
	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return ctx.Err() == nil
			}
			if event.TenantID != tenantID {
				EventsTotal.WithLabelValues(event.Type.String(), "foreign").Inc()
				log.Warn("event for another tenant skipped",
					logger.NewField("event_tenant_id", event.TenantID),
				)
				continue
			}
			if !list.Apply(event) {
				EventsTotal.WithLabelValues(event.Type.String(), "skipped").Inc()
				continue
			}
			EventsTotal.WithLabelValues(event.Type.String(), "applied").Inc()
			onChange(list.Snapshot())
		}
	}
}
