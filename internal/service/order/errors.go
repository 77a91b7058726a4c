package order

import "errors"

var (
	ErrInvalidTenantID    = errors.New("invalid tenant id")
	ErrInvalidOrderID     = errors.New("invalid order id")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidCustomer    = errors.New("invalid customer name")
	ErrInvalidOrderLines  = errors.New("invalid order lines")
	ErrInvalidTotalAmount = errors.New("invalid total amount")

	ErrOrderNotFound        = errors.New("order not found")
	ErrConflict             = errors.New("order already exists")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")

	// ErrStore любая другая ошибка хранилища: соединение, constraint, запрос.
	ErrStore = errors.New("order store error")
)
