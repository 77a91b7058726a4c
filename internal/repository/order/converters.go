package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"restboard/internal/entities"
)

func ToDomain(m *OrderDB) *entities.Order {
	if m == nil {
		return nil
	}

	return &entities.Order{
		ID:              m.ID,
		TenantID:        m.TenantID,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		CustomerPhone:   m.CustomerPhone,
		DeliveryAddress: m.DeliveryAddress,
		Lines:           DecodeLines(m.OrderLines),
		Notes:           m.Notes,
		TotalAmount:     m.TotalAmount,
		Status:          entities.OrderStatusType(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToDomainList(models []OrderDB) []entities.Order {
	if len(models) == 0 {
		return []entities.Order{}
	}

	result := make([]entities.Order, len(models))
	for i := range models {
		result[i] = *ToDomain(&models[i])
	}
	return result
}

func EncodeLines(lines []entities.OrderLine) ([]byte, error) {
	models := make([]OrderLineDB, len(lines))
	for i, l := range lines {
		models[i] = OrderLineDB{
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.UnitPrice.String(),
			ImageURL: l.ImageURL,
		}
	}

	data, err := json.Marshal(models)
	if err != nil {
		return nil, fmt.Errorf("encode order lines: %w", err)
	}
	return data, nil
}

// DecodeLines разбирает order_lines, не доверяя форме данных:
// строки, записанные старой витриной, бывают с quantity строкой или без price.
// Нераспознанные поля заменяются нулями, не-массив дает пустой список.
func DecodeLines(data []byte) []entities.OrderLine {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return []entities.OrderLine{}
	}

	lines := make([]entities.OrderLine, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		lines = append(lines, entities.OrderLine{
			Name:      asString(item["name"]),
			Quantity:  asQuantity(item["quantity"]),
			UnitPrice: asDecimal(firstPresent(item, "price", "unit_price")),
			ImageURL:  asString(firstPresent(item, "image_url", "image")),
		})
	}
	return lines
}

func firstPresent(item map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := item[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func asQuantity(v any) int {
	var text string
	switch val := v.(type) {
	case json.Number:
		text = val.String()
	case string:
		text = strings.TrimSpace(val)
	default:
		return 0
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n < 0 || n > math.MaxInt32 {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func asDecimal(v any) decimal.Decimal {
	var text string
	switch val := v.(type) {
	case json.Number:
		text = val.String()
	case string:
		text = strings.TrimSpace(val)
	default:
		return decimal.Zero
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}
