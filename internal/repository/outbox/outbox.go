package outbox

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"restboard/internal/entities"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// Insert пишет событие в транзакции из контекста, если она открыта.
func (r *Repository) Insert(ctx context.Context, record entities.OutboxRecord) error {
	query := `INSERT INTO order_outbox (event_id, topic, key, payload)
		VALUES ($1, $2, $3, $4)`

	_, err := r.querier.Exec(ctx, query, record.EventID, record.Topic, record.Key, record.Payload)
	if err != nil {
		return fmt.Errorf("unexpected outbox repository insert error: %w", err)
	}
	return nil
}

// FetchPending возвращает неотправленные события в порядке записи.
func (r *Repository) FetchPending(ctx context.Context, limit int) ([]entities.OutboxRecord, error) {
	query := `SELECT id, event_id, topic, key, payload, created_at, sent_at
		FROM order_outbox
		WHERE sent_at IS NULL
		ORDER BY id
		LIMIT $1`

	rows, err := r.querier.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unexpected outbox repository fetch error: %w", err)
	}
	defer rows.Close()

	records := make([]entities.OutboxRecord, 0, limit)
	for rows.Next() {
		var rec entities.OutboxRecord
		err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt)
		if err != nil {
			return nil, fmt.Errorf("unexpected outbox repository fetch error: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected outbox repository fetch error: %w", err)
	}
	return records, nil
}

// MarkSent помечает события отправленными, возвращает число обновленных строк.
func (r *Repository) MarkSent(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := qb.
		Update("order_outbox").
		Set("sent_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ids}).
		Where(sq.Eq{"sent_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected outbox repository mark sent error: %w", err)
	}

	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("unexpected outbox repository mark sent error: %w", err)
	}
	return tag.RowsAffected(), nil
}
