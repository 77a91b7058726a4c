package converters

import (
	"strings"

	"github.com/AlekSi/pointer"
	"github.com/shopspring/decimal"
	"restboard/internal/entities"
	"restboard/internal/generated/dto"
)

const dateLayout = "2006-01-02"

// money суммы отдаются строкой с двумя знаками, как их показывает дашборд.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func OrderToDTO(o entities.Order) dto.Order {
	lines := make([]dto.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLine{
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.UnitPrice.String(),
			ImageUrl: pointer.ToStringOrNil(l.ImageURL),
		})
	}

	return dto.Order{
		Id:              o.ID,
		TenantId:        o.TenantID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   pointer.ToStringOrNil(o.CustomerEmail),
		CustomerPhone:   pointer.ToStringOrNil(o.CustomerPhone),
		DeliveryAddress: pointer.ToStringOrNil(o.DeliveryAddress),
		OrderLines:      lines,
		Notes:           pointer.ToStringOrNil(o.Notes),
		TotalAmount:     o.TotalAmount,
		Status:          o.Status.String(),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func OrdersToDTO(orders []entities.Order) dto.OrdersResponse {
	res := dto.OrdersResponse{
		Orders: make([]dto.Order, 0, len(orders)),
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, OrderToDTO(o))
	}
	return res
}

// OrderCreateFromDTO строки checkout. Цена уже проверена валидатором, ошибку парсинга не ждем.
func OrderCreateFromDTO(tenantID string, in dto.OrderCreate) entities.OrderCreate {
	lines := make([]entities.OrderLine, 0, len(in.OrderLines))
	for _, l := range in.OrderLines {
		price, _ := decimal.NewFromString(strings.TrimSpace(l.Price))
		lines = append(lines, entities.OrderLine{
			Name:      strings.TrimSpace(l.Name),
			Quantity:  l.Quantity,
			UnitPrice: price,
			ImageURL:  pointer.GetString(l.ImageUrl),
		})
	}

	return entities.OrderCreate{
		TenantID:        tenantID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(pointer.GetString(in.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(pointer.GetString(in.CustomerPhone)),
		DeliveryAddress: strings.TrimSpace(pointer.GetString(in.DeliveryAddress)),
		Lines:           lines,
		Notes:           pointer.GetString(in.Notes),
		TotalAmount:     in.TotalAmount,
	}
}

func StatisticsToDTO(s entities.Statistics) dto.Statistics {
	items := make([]dto.PopularItem, 0, len(s.PopularItems))
	for _, it := range s.PopularItems {
		items = append(items, dto.PopularItem{
			Name:  it.Name,
			Value: it.Value,
		})
	}

	daily := make([]dto.DailySales, 0, len(s.DailySales))
	for _, d := range s.DailySales {
		daily = append(daily, dto.DailySales{
			Date:       d.Date.Format(dateLayout),
			TotalSales: money(d.TotalSales),
			OrderCount: d.OrderCount,
		})
	}

	return dto.Statistics{
		TimeRange:         s.TimeRange.String(),
		NoData:            s.NoData,
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      money(s.TotalRevenue),
		AverageOrderValue: money(s.AverageOrderValue),
		HighestOrder:      money(s.HighestOrder),
		LowestOrder:       money(s.LowestOrder),
		PendingOrders:     s.PendingOrders,
		CompletedOrders:   s.CompletedOrders,
		CancelledOrders:   s.CancelledOrders,
		OrdersToday:       s.OrdersToday,
		OrdersThisWeek:    s.OrdersThisWeek,
		OrdersThisMonth:   s.OrdersThisMonth,
		PeakHour:          s.PeakHour,
		PopularItems:      items,
		DailySales:        daily,
	}
}
