package statistics_get

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"restboard/internal/handlers/rest/converters"
	"restboard/internal/service/order"
	"restboard/internal/service/statistics"
	"restboard/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenant_id"]

	stats, err := h.service.GetStatistics(r.Context(), tenantID, r.URL.Query().Get("range"))
	if err != nil {
		switch {
		case errors.Is(err, statistics.ErrInvalidTimeRange),
			errors.Is(err, order.ErrInvalidTenantID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, order.ErrStore):
			h.log.With(
				logger.NewField("error", err),
				logger.NewField("tenant_id", tenantID),
			).Error("load statistics")
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(converters.StatisticsToDTO(stats))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
