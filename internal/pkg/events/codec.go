package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"restboard/internal/entities"
)

var (
	ErrUnknownChangeType = errors.New("unknown change type")
	ErrMissingTenant     = errors.New("change event without tenant")
	ErrMissingRow        = errors.New("change event without order row")
)

// OrderChanged - формат события в outbox, kafka и redis.
// Ключи совпадают с колонками таблицы orders, чтобы payload читался так же, как строка из БД.
type OrderChanged struct {
	EventType  string    `json:"eventType"`
	TenantID   string    `json:"tenant_id"`
	New        *OrderRow `json:"new,omitempty"`
	Old        *OrderRow `json:"old,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type OrderRow struct {
	ID              string         `json:"id"`
	TenantID        string         `json:"tenant_id"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone"`
	DeliveryAddress string         `json:"delivery_address"`
	OrderLines      []OrderRowLine `json:"order_lines"`
	Notes           string         `json:"notes"`
	TotalAmount     string         `json:"total_amount"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type OrderRowLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
}

func Encode(event entities.ChangeEvent, occurredAt time.Time) ([]byte, error) {
	if err := validate(event); err != nil {
		return nil, err
	}

	msg := OrderChanged{
		EventType:  event.Type.String(),
		TenantID:   event.TenantID,
		New:        fromOrder(event.New),
		Old:        fromOrder(event.Old),
		OccurredAt: occurredAt.UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal order change: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (entities.ChangeEvent, error) {
	var msg OrderChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return entities.ChangeEvent{}, fmt.Errorf("unmarshal order change: %w", err)
	}

	event := entities.ChangeEvent{
		Type:     entities.ChangeType(msg.EventType),
		TenantID: msg.TenantID,
		New:      toOrder(msg.New),
		Old:      toOrder(msg.Old),
	}
	if err := validate(event); err != nil {
		return entities.ChangeEvent{}, err
	}
	return event, nil
}

func validate(event entities.ChangeEvent) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownChangeType, event.Type)
	}
	if event.TenantID == "" {
		return ErrMissingTenant
	}

	switch event.Type {
	case entities.ChangeInsert, entities.ChangeUpdate:
		if event.New == nil {
			return fmt.Errorf("%w: %s needs new row", ErrMissingRow, event.Type)
		}
	case entities.ChangeDelete:
		if event.Old == nil {
			return fmt.Errorf("%w: delete needs old row", ErrMissingRow)
		}
	}
	return nil
}

func fromOrder(o *entities.Order) *OrderRow {
	if o == nil {
		return nil
	}

	lines := make([]OrderRowLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderRowLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			ImageURL:  l.ImageURL,
		}
	}

	return &OrderRow{
		ID:              o.ID,
		TenantID:        o.TenantID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		OrderLines:      lines,
		Notes:           o.Notes,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status.String(),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrder(r *OrderRow) *entities.Order {
	if r == nil {
		return nil
	}

	lines := make([]entities.OrderLine, len(r.OrderLines))
	for i, l := range r.OrderLines {
		lines[i] = entities.OrderLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			ImageURL:  l.ImageURL,
		}
	}

	return &entities.Order{
		ID:              r.ID,
		TenantID:        r.TenantID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		DeliveryAddress: r.DeliveryAddress,
		Lines:           lines,
		Notes:           r.Notes,
		TotalAmount:     r.TotalAmount,
		Status:          entities.OrderStatusType(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
