package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string
	TenantID        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Lines           []OrderLine
	Notes           string
	// TotalAmount хранится в том виде, в каком его прислал клиент, и никогда не пересчитывается из строк заказа.
	TotalAmount string
	Status      OrderStatusType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderLine позиция заказа. Quantity == 0 означает, что количество не пришло или не распарсилось.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	ImageURL  string
}

type OrderStatusType string

const (
	OrderPendingConfirmation OrderStatusType = "Pending Confirmation"
	OrderConfirmed           OrderStatusType = "Confirmed"
	OrderInProgress          OrderStatusType = "In Progress"
	OrderDispatched          OrderStatusType = "Dispatched"
	OrderDelivered           OrderStatusType = "Delivered"
	OrderCompleted           OrderStatusType = "Completed"
	OrderCancelled           OrderStatusType = "Cancelled"
)

// OrderStatusAll значение фильтра очереди, означающее "без фильтра по статусу".
const OrderStatusAll = "All"

// AllOrderStatuses статусы в порядке жизненного цикла, так их показывает селектор.
func AllOrderStatuses() []OrderStatusType {
	return []OrderStatusType{
		OrderPendingConfirmation,
		OrderConfirmed,
		OrderInProgress,
		OrderDispatched,
		OrderDelivered,
		OrderCompleted,
		OrderCancelled,
	}
}

func (s OrderStatusType) String() string {
	return string(s)
}

func (s OrderStatusType) IsValid() bool {
	switch s {
	case OrderPendingConfirmation,
		OrderConfirmed,
		OrderInProgress,
		OrderDispatched,
		OrderDelivered,
		OrderCompleted,
		OrderCancelled:
		return true
	default:
		return false
	}
}

// IsPending заказ еще в работе у ресторана.
func (s OrderStatusType) IsPending() bool {
	switch s {
	case OrderPendingConfirmation, OrderConfirmed, OrderInProgress, OrderDispatched:
		return true
	default:
		return false
	}
}

// IsFulfilled заказ доведен до клиента.
func (s OrderStatusType) IsFulfilled() bool {
	return s == OrderCompleted || s == OrderDelivered
}

func (s OrderStatusType) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// OrderCreate данные checkout для вставки нового заказа.
type OrderCreate struct {
	// ID генерирует сервис перед вставкой
	ID              string
	TenantID        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Lines           []OrderLine
	Notes           string
	TotalAmount     string
}

// OrderStatusUpdate запрос на смену статуса одного заказа.
type OrderStatusUpdate struct {
	TenantID string
	OrderID  string
	Status   OrderStatusType
}
