package order

import (
	"strings"

	"github.com/shopspring/decimal"
	"restboard/internal/entities"
)

func isValidID(id string) bool {
	return strings.TrimSpace(id) != ""
}

func isValidLines(lines []entities.OrderLine) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if strings.TrimSpace(l.Name) == "" || l.Quantity <= 0 || l.UnitPrice.IsNegative() {
			return false
		}
	}
	return true
}

func isValidTotalAmount(amount string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// ParseStatusFilter пустой фильтр и "All" означают все статусы.
func ParseStatusFilter(filter string) (string, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == entities.OrderStatusAll {
		return entities.OrderStatusAll, nil
	}
	if !entities.OrderStatusType(filter).IsValid() {
		return "", ErrInvalidStatus
	}
	return filter, nil
}
