package order_changes

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"restboard/internal/entities"
	"restboard/internal/pkg/events"
	"restboard/internal/service/feed"
	"restboard/pkg/logger"
)

const eventsBuffer = 64

type Subscriber struct {
	log    handlerLogger
	client *redis.Client
}

func NewSubscriber(log handlerLogger, client *redis.Client) *Subscriber {
	return &Subscriber{
		log:    log,
		client: client,
	}
}

// Subscribe открывает подписку на канал тенанта и ждет подтверждения от Redis.
func (s *Subscriber) Subscribe(ctx context.Context, tenantID string) (feed.Subscription, error) {
	pubsub := s.client.Subscribe(ctx, Channel(tenantID))

	// первый ответ - подтверждение подписки, без него сообщения могут потеряться
	if _, err := pubsub.Receive(ctx); err != nil {
		closeErr := pubsub.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("redis subscribe: %w (failed to close: %w)", err, closeErr)
		}
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	sub := &subscription{
		log: s.log.With(
			logger.NewField("channel", Channel(tenantID)),
		),
		pubsub: pubsub,
		events: make(chan entities.ChangeEvent, eventsBuffer),
		done:   make(chan struct{}),
	}
	go sub.run()

	return sub, nil
}

type subscription struct {
	log    handlerLogger
	pubsub *redis.PubSub
	events chan entities.ChangeEvent
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func (s *subscription) Events() <-chan entities.ChangeEvent {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.pubsub.Close()
	})
	return s.closeErr
}

// run декодирует сообщения канала. go-redis сам переподключается после обрыва,
// но сообщения за время обрыва потеряны: повторное подтверждение подписки закрывает
// Events(), и лента перечитывает список.
func (s *subscription) run() {
	defer close(s.events)

	for msg := range s.pubsub.ChannelWithSubscriptions() {
		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind == "subscribe" {
				s.log.Warn("redis resubscribed after reconnect")
				return
			}

		case *redis.Message:
			event, err := events.Decode([]byte(m.Payload))
			if err != nil {
				ReceivedTotal.WithLabelValues("bad_message").Inc()
				s.log.Warn("bad order change message",
					logger.NewField("error", err),
				)
				continue
			}
			ReceivedTotal.WithLabelValues("ok").Inc()

			select {
			case s.events <- event:
			case <-s.done:
				return
			}
		}
	}
}
