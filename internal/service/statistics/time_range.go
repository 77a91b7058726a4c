package statistics

import (
	"fmt"
	"strings"
	"time"

	"restboard/internal/entities"
)

var rangeSlugs = map[string]entities.TimeRange{
	"all_time":   entities.RangeAllTime,
	"today":      entities.RangeToday,
	"yesterday":  entities.RangeYesterday,
	"past_week":  entities.RangePastWeek,
	"past_month": entities.RangePastMonth,
	"past_year":  entities.RangePastYear,
}

// ParseTimeRange принимает подпись селектора ("Past Week") или slug ("past_week").
// Пустое значение - All time.
func ParseTimeRange(value string) (entities.TimeRange, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return entities.RangeAllTime, nil
	}
	if r, ok := rangeSlugs[strings.ToLower(value)]; ok {
		return r, nil
	}
	for _, r := range entities.AllTimeRanges() {
		if strings.EqualFold(value, r.String()) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, value)
}

// FilterByRange окно привязано к now. Today/Yesterday сравнивают календарный день,
// остальные оставляют заказы, созданные не раньше скользящей границы.
func FilterByRange(orders []entities.Order, timeRange entities.TimeRange, now time.Time) []entities.Order {
	keep := rangePredicate(timeRange, now)

	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o.CreatedAt) {
			result = append(result, o)
		}
	}
	return result
}

func rangePredicate(timeRange entities.TimeRange, now time.Time) func(time.Time) bool {
	atOrAfter := func(cutoff time.Time) func(time.Time) bool {
		return func(t time.Time) bool {
			return !t.Before(cutoff)
		}
	}

	switch timeRange {
	case entities.RangeToday:
		return func(t time.Time) bool { return sameDay(t, now) }
	case entities.RangeYesterday:
		yesterday := now.AddDate(0, 0, -1)
		return func(t time.Time) bool { return sameDay(t, yesterday) }
	case entities.RangePastWeek:
		return atOrAfter(now.AddDate(0, 0, -7))
	case entities.RangePastMonth:
		return atOrAfter(now.AddDate(0, -1, 0))
	case entities.RangePastYear:
		return atOrAfter(now.AddDate(-1, 0, 0))
	default:
		return func(time.Time) bool { return true }
	}
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek неделя начинается с воскресенья
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
