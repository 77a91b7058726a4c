package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeRange string

const (
	RangeAllTime   TimeRange = "All time"
	RangeToday     TimeRange = "Today"
	RangeYesterday TimeRange = "Yesterday"
	RangePastWeek  TimeRange = "Past Week"
	RangePastMonth TimeRange = "Past Month"
	RangePastYear  TimeRange = "Past Year"
)

func AllTimeRanges() []TimeRange {
	return []TimeRange{
		RangeAllTime,
		RangePastYear,
		RangePastMonth,
		RangePastWeek,
		RangeYesterday,
		RangeToday,
	}
}

func (r TimeRange) String() string {
	return string(r)
}

type PopularItem struct {
	Name  string
	Value int
}

type DailySales struct {
	// Date полночь календарного дня в таймзоне дашборда
	Date       time.Time
	TotalSales decimal.Decimal
	OrderCount int
}

// Statistics снимок агрегатов по заказам одного тенанта за выбранный период.
type Statistics struct {
	TimeRange         TimeRange
	TotalOrders       int
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	HighestOrder      decimal.Decimal
	LowestOrder       decimal.Decimal
	PendingOrders     int
	CompletedOrders   int
	CancelledOrders   int
	OrdersToday       int
	OrdersThisWeek    int
	OrdersThisMonth   int
	// PeakHour "HH:00" или "N/A"
	PeakHour     string
	PopularItems []PopularItem
	DailySales   []DailySales
	NoData       bool
}
