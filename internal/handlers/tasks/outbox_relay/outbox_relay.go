package outbox_relay

import (
	"context"
	"time"
)

type Relay interface {
	Relay(ctx context.Context) (int, error)
}

// OutboxRelay переносит накопившиеся записи outbox в kafka.
// За один тик выгребает очередь целиком, пока партии приходят полными.
type OutboxRelay struct {
	relay     Relay
	interval  time.Duration
	batchSize int
}

func NewOutboxRelay(relay Relay, interval time.Duration, batchSize int) *OutboxRelay {
	return &OutboxRelay{
		relay:     relay,
		interval:  interval,
		batchSize: batchSize,
	}
}

// TTL возвращает интервал между выполнениями задачи.
func (o *OutboxRelay) TTL() time.Duration {
	return o.interval
}

// Do выполняет логику задачи.
func (o *OutboxRelay) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	for {
		sent, err := o.relay.Relay(ctxWithTimeout)
		if err != nil {
			return err
		}

		if sent < o.batchSize || ctxWithTimeout.Err() != nil {
			return nil
		}
	}
}

// Info возвращает читаемое описание задачи для логгирования и отладки.
func (o *OutboxRelay) Info() string {
	return "outbox relay"
}
