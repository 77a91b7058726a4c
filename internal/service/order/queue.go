package order

import (
	"time"

	"restboard/internal/entities"
)

// ActiveQueue рабочая очередь дашборда: фильтр по статусу ("All" или точное совпадение)
// и без заказов Completed, созданных не сегодня. Это правило отображения, хранилище не трогаем.
// Календарный день берется в таймзоне now.
func ActiveQueue(orders []entities.Order, statusFilter string, now time.Time) []entities.Order {
	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		if statusFilter != "" && statusFilter != entities.OrderStatusAll && o.Status.String() != statusFilter {
			continue
		}
		if o.Status == entities.OrderCompleted && !sameDay(o.CreatedAt, now) {
			continue
		}
		result = append(result, o)
	}
	return result
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
