package order

import (
	"time"
)

type OrderDB struct {
	ID              string
	TenantID        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	OrderLines      []byte
	Notes           string
	TotalAmount     string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderLineDB элемент массива order_lines. Ключи как у корзины витрины.
type OrderLineDB struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

const orderColumns = `id, tenant_id, customer_name, customer_email, customer_phone, delivery_address,
	order_lines, notes, total_amount, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (OrderDB, error) {
	var m OrderDB
	err := row.Scan(
		&m.ID,
		&m.TenantID,
		&m.CustomerName,
		&m.CustomerEmail,
		&m.CustomerPhone,
		&m.DeliveryAddress,
		&m.OrderLines,
		&m.Notes,
		&m.TotalAmount,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}
