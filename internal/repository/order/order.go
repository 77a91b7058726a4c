package order

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"restboard/internal/entities"
	"restboard/internal/repository"
	"restboard/internal/service/order"
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

func (r *Repository) Create(ctx context.Context, orderCreate entities.OrderCreate) (*entities.Order, error) {
	lines, err := EncodeLines(orderCreate.Lines)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	query := `INSERT INTO orders (id, tenant_id, customer_name, customer_email, customer_phone,
			delivery_address, order_lines, notes, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + orderColumns

	model, err := scanOrder(r.querier.QueryRow(
		ctx,
		query,
		orderCreate.ID,
		orderCreate.TenantID,
		orderCreate.CustomerName,
		orderCreate.CustomerEmail,
		orderCreate.CustomerPhone,
		orderCreate.DeliveryAddress,
		lines,
		orderCreate.Notes,
		orderCreate.TotalAmount,
		entities.OrderPendingConfirmation.String(),
	))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return nil, order.ErrConflict
		}
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	return ToDomain(&model), nil
}

// UpdateStatus меняет статус и updated_at одной строкой, ключ - заказ внутри тенанта.
func (r *Repository) UpdateStatus(ctx context.Context, update entities.OrderStatusUpdate) (*entities.Order, error) {
	query, args, err := qb.
		Update("orders").
		Set("status", update.Status.String()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":        update.OrderID,
			"tenant_id": update.TenantID,
		}).
		Suffix("RETURNING " + orderColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository update status error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository update status error: %w", err)
	}

	return ToDomain(&model), nil
}

func (r *Repository) GetByID(ctx context.Context, tenantID, orderID string) (*entities.Order, error) {
	return r.getByID(ctx, tenantID, orderID, false)
}

// GetByIDForUpdate блокирует строку до конца транзакции из контекста.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tenantID, orderID string) (*entities.Order, error) {
	return r.getByID(ctx, tenantID, orderID, true)
}

func (r *Repository) getByID(ctx context.Context, tenantID, orderID string, forUpdate bool) (*entities.Order, error) {
	builder := qb.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{
			"id":        orderID,
			"tenant_id": tenantID,
		})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	return ToDomain(&model), nil
}

// GetAllByTenant bulk select для инициализации ленты и статистики, новые заказы первыми.
func (r *Repository) GetAllByTenant(ctx context.Context, tenantID string) ([]entities.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id`

	rows, err := r.querier.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getall error: %w", err)
	}
	defer rows.Close()

	models := make([]OrderDB, 0, 32)
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository getall error: %w", err)
		}
		models = append(models, model)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getall error: %w", err)
	}

	return ToDomainList(models), nil
}
