package order_statuses_get

import (
	"encoding/json"
	"net/http"

	"restboard/internal/entities"
	"restboard/internal/generated/dto"
	"restboard/pkg/logger"
)

// Handler значения для селекторов дашборда: фильтр очереди, статус заказа, период статистики.
type Handler struct {
	log      handlerLogger
	response dto.OrderStatusesResponse
}

func New(log handlerLogger) *Handler {
	handlerLog := log.With()

	statuses := entities.AllOrderStatuses()
	res := dto.OrderStatusesResponse{
		StatusFilters: make([]string, 0, len(statuses)+1),
		Statuses:      make([]string, 0, len(statuses)),
	}
	res.StatusFilters = append(res.StatusFilters, entities.OrderStatusAll)
	for _, s := range statuses {
		res.StatusFilters = append(res.StatusFilters, s.String())
		res.Statuses = append(res.Statuses, s.String())
	}
	for _, r := range entities.AllTimeRanges() {
		res.TimeRanges = append(res.TimeRanges, r.String())
	}

	return &Handler{
		log:      handlerLog,
		response: res,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(h.response)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
