package feed

import (
	"slices"

	"restboard/internal/entities"
)

// List локальная копия заказов тенанта, к которой применяются события подписки.
// Порядок: новые вставки в начало, обновления на месте.
type List struct {
	orders []entities.Order
}

func NewList(orders []entities.Order) *List {
	return &List{orders: slices.Clone(orders)}
}

// Apply применяет событие и сообщает, изменился ли список.
// Обновление или удаление неизвестного id ничего не делает.
func (l *List) Apply(event entities.ChangeEvent) bool {
	switch event.Type {
	case entities.ChangeInsert:
		if event.New == nil {
			return false
		}
		if i := l.indexOf(event.New.ID); i >= 0 {
			l.orders[i] = *event.New
			return true
		}
		l.orders = slices.Insert(l.orders, 0, *event.New)
		return true

	case entities.ChangeUpdate:
		if event.New == nil {
			return false
		}
		i := l.indexOf(event.New.ID)
		if i < 0 {
			return false
		}
		if isStale(l.orders[i], *event.New) {
			return false
		}
		l.orders[i] = *event.New
		return true

	case entities.ChangeDelete:
		i := l.indexOf(event.OrderID())
		if i < 0 {
			return false
		}
		l.orders = slices.Delete(l.orders, i, i+1)
		return true

	default:
		return false
	}
}

// Snapshot копия текущего списка.
func (l *List) Snapshot() []entities.Order {
	if l.orders == nil {
		return []entities.Order{}
	}
	return slices.Clone(l.orders)
}

func (l *List) Len() int {
	return len(l.orders)
}

func (l *List) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(l.orders, func(o entities.Order) bool {
		return o.ID == id
	})
}

// isStale обновление старше того, что уже лежит в списке. Без updated_at сравнить нельзя, применяем.
func isStale(held, incoming entities.Order) bool {
	if held.UpdatedAt.IsZero() || incoming.UpdatedAt.IsZero() {
		return false
	}
	return incoming.UpdatedAt.Before(held.UpdatedAt)
}
