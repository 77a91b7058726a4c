package order_changes

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"restboard/internal/entities"
	"restboard/internal/pkg/events"
)

type Publisher struct {
	client *redis.Client
	now    func() time.Time
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client: client,
		now:    time.Now,
	}
}

func (p *Publisher) Publish(ctx context.Context, event entities.ChangeEvent) error {
	payload, err := events.Encode(event, p.now())
	if err != nil {
		PublishedTotal.WithLabelValues(event.Type.String(), "encode_error").Inc()
		return fmt.Errorf("encode order change: %w", err)
	}

	receivers, err := p.client.Publish(ctx, Channel(event.TenantID), string(payload)).Result()
	if err != nil {
		PublishedTotal.WithLabelValues(event.Type.String(), "error").Inc()
		return fmt.Errorf("redis publish: %w", err)
	}

	PublishedTotal.WithLabelValues(event.Type.String(), "ok").Inc()
	PublishReceivers.Observe(float64(receivers))
	return nil
}
