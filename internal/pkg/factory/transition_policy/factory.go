package transition_policy

import (
	"errors"
	"fmt"

	"restboard/internal/entities"
	"restboard/internal/service/order"
)

const (
	Permissive = "permissive"
	Lifecycle  = "lifecycle"
)

var ErrUndefinedPolicy = errors.New("undefined transition policy")

// New возвращает политику по имени из конфига. Пустое имя - permissive.
func New(name string) (order.TransitionPolicy, error) {
	switch name {
	case "", Permissive:
		return permissivePolicy{}, nil
	case Lifecycle:
		return lifecyclePolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUndefinedPolicy, name)
	}
}

// permissivePolicy любой статус в любой, текущая строка не нужна.
type permissivePolicy struct{}

func (permissivePolicy) NeedsCurrent() bool {
	return false
}

func (permissivePolicy) Allow(_, _ entities.OrderStatusType) error {
	return nil
}

type lifecyclePolicy struct{}

// шаг статуса в жизненном цикле, Cancelled обрабатывается отдельно
var lifecycleStep = map[entities.OrderStatusType]int{
	entities.OrderPendingConfirmation: 0,
	entities.OrderConfirmed:           1,
	entities.OrderInProgress:          2,
	entities.OrderDispatched:          3,
	entities.OrderDelivered:           4,
	entities.OrderCompleted:           5,
}

func (lifecyclePolicy) NeedsCurrent() bool {
	return true
}

// Allow только вперед по циклу (шаги можно пропускать), Cancelled из любого незавершенного.
// Повторная установка того же статуса разрешена.
func (lifecyclePolicy) Allow(from, to entities.OrderStatusType) error {
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", order.ErrTransitionNotAllowed, from)
	}
	if to == entities.OrderCancelled {
		return nil
	}

	fromStep, okFrom := lifecycleStep[from]
	toStep, okTo := lifecycleStep[to]
	if !okFrom || !okTo || toStep < fromStep {
		return fmt.Errorf("%w: %s -> %s", order.ErrTransitionNotAllowed, from, to)
	}
	return nil
}
