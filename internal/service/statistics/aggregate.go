package statistics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"restboard/internal/entities"
)

const (
	popularItemsLimit = 5
	dailySalesMaxDays = 30

	noPeakHour      = "N/A"
	noDataItemName  = "No data"
	noDataItemValue = 1
)

// Aggregate снимок статистики по заказам за период. Чистая функция, календарные дни в таймзоне now.
func Aggregate(orders []entities.Order, timeRange entities.TimeRange, now time.Time) entities.Statistics {
	filtered := FilterByRange(orders, timeRange, now)

	stats := entities.Statistics{
		TimeRange:         timeRange,
		TotalOrders:       len(filtered),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		HighestOrder:      decimal.Zero,
		LowestOrder:       decimal.Zero,
		NoData:            len(filtered) == 0,
	}

	weekStart := startOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var (
		hasHighest bool
		hasLowest  bool
	)
	for _, o := range filtered {
		switch {
		case o.Status.IsFulfilled():
			stats.CompletedOrders++
		case o.Status == entities.OrderCancelled:
			stats.CancelledOrders++
		case o.Status.IsPending():
			stats.PendingOrders++
		}

		amount := ParseAmount(o.TotalAmount)
		stats.TotalRevenue = stats.TotalRevenue.Add(amount)
		if !hasHighest || amount.GreaterThan(stats.HighestOrder) {
			stats.HighestOrder = amount
			hasHighest = true
		}
		if amount.IsPositive() && (!hasLowest || amount.LessThan(stats.LowestOrder)) {
			stats.LowestOrder = amount
			hasLowest = true
		}

		created := o.CreatedAt.In(now.Location())
		if sameDay(created, now) {
			stats.OrdersToday++
		}
		if !created.Before(weekStart) && created.Before(weekEnd) {
			stats.OrdersThisWeek++
		}
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.OrdersThisMonth++
		}
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalOrders)))
	}

	stats.PeakHour = peakHour(filtered, now.Location())
	stats.PopularItems = popularItems(filtered)
	stats.DailySales = dailySales(filtered, now)

	return stats
}

// ParseAmount сумма заказа как decimal, нечисловое значение дает ноль.
func ParseAmount(amount string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// peakHour час с максимумом заказов, при равенстве побеждает встреченный первым.
func peakHour(orders []entities.Order, loc *time.Location) string {
	counts := make(map[int]int)
	seen := make([]int, 0, 24)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		h := o.CreatedAt.In(loc).Hour()
		if _, ok := counts[h]; !ok {
			seen = append(seen, h)
		}
		counts[h]++
	}
	if len(seen) == 0 {
		return noPeakHour
	}

	best := seen[0]
	for _, h := range seen[1:] {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return fmt.Sprintf("%02d:00", best)
}

// popularItems топ позиций по сумме количества. Отсутствующее или неположительное количество считается за 1.
func popularItems(orders []entities.Order) []entities.PopularItem {
	counts := make(map[string]int64)
	items := make([]entities.PopularItem, 0)
	for _, o := range orders {
		for _, line := range o.Lines {
			if line.Name == "" {
				continue
			}
			qty := int64(line.Quantity)
			if qty <= 0 {
				qty = 1
			}
			if _, ok := counts[line.Name]; !ok {
				items = append(items, entities.PopularItem{Name: line.Name})
			}
			// сумма насыщается на MaxInt32, битая строка не переполняет счетчик
			counts[line.Name] = min(counts[line.Name]+min(qty, math.MaxInt32), math.MaxInt32)
		}
	}
	if len(items) == 0 {
		return []entities.PopularItem{{Name: noDataItemName, Value: noDataItemValue}}
	}

	for i := range items {
		items[i].Value = int(counts[items[i].Name])
	}
	// стабильная сортировка сохраняет порядок первого появления при равенстве
	slices.SortStableFunc(items, func(a, b entities.PopularItem) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if len(items) > popularItemsLimit {
		items = items[:popularItemsLimit]
	}
	return items
}

// dailySales непрерывный ряд по дням от дня самого старого заказа до сегодня, не длиннее 30 дней.
func dailySales(orders []entities.Order, now time.Time) []entities.DailySales {
	if len(orders) == 0 {
		return []entities.DailySales{}
	}

	today := startOfDay(now)
	first := today
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		day := startOfDay(o.CreatedAt.In(now.Location()))
		if day.Before(first) {
			first = day
		}
	}
	if earliest := today.AddDate(0, 0, -(dailySalesMaxDays - 1)); first.Before(earliest) {
		first = earliest
	}

	series := make([]entities.DailySales, 0, dailySalesMaxDays)
	index := make(map[string]int, dailySalesMaxDays)
	for day := first; !day.After(today); day = day.AddDate(0, 0, 1) {
		index[day.Format(time.DateOnly)] = len(series)
		series = append(series, entities.DailySales{Date: day, TotalSales: decimal.Zero})
	}

	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		key := o.CreatedAt.In(now.Location()).Format(time.DateOnly)
		i, ok := index[key]
		if !ok {
			continue
		}
		series[i].TotalSales = series[i].TotalSales.Add(ParseAmount(o.TotalAmount))
		series[i].OrderCount++
	}
	return series
}
