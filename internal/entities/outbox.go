package entities

import "time"

// OutboxRecord событие, записанное в одной транзакции с изменением заказа и ожидающее отправки в kafka.
type OutboxRecord struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}
