package relay

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidBatchSize = errors.New("invalid relay batch size")

type Service struct {
	outbox    OutboxRepository
	producer  Producer
	batchSize int
}

func New(outbox OutboxRepository, producer Producer, batchSize int) *Service {
	return &Service{
		outbox:    outbox,
		producer:  producer,
		batchSize: batchSize,
	}
}

// Relay отправляет пачку неотправленных событий по порядку записи и помечает отправленные.
// Порядок событий сохраняется: на первой ошибке отправки пачка останавливается.
// Доставка at-least-once: упавший после Send процесс отправит событие повторно.
func (s *Service) Relay(ctx context.Context) (int, error) {
	if s.batchSize <= 0 {
		return 0, ErrInvalidBatchSize
	}

	records, err := s.outbox.FetchPending(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending outbox: %w", err)
	}
	PendingBatchSize.Set(float64(len(records)))
	if len(records) == 0 {
		return 0, nil
	}

	sent := make([]int64, 0, len(records))
	var sendErr error
	for _, record := range records {
		if err := s.producer.Send(ctx, record); err != nil {
			RelayedTotal.WithLabelValues("error").Inc()
			sendErr = fmt.Errorf("send outbox event %d: %w", record.ID, err)
			break
		}
		RelayedTotal.WithLabelValues("ok").Inc()
		sent = append(sent, record.ID)
	}

	if len(sent) > 0 {
		if _, err := s.outbox.MarkSent(ctx, sent); err != nil {
			return len(sent), errors.Join(sendErr, fmt.Errorf("mark outbox sent: %w", err))
		}
	}
	return len(sent), sendErr
}
