package order_status_patch

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"restboard/internal/entities"
	"restboard/internal/generated/dto"
	"restboard/internal/handlers/rest/converters"
	"restboard/internal/service/order"
	"restboard/pkg/logger"
)

type Handler struct {
	log      handlerLogger
	service  Service
	validate *validator.Validate
}

func New(log handlerLogger, service Service, validate *validator.Validate) *Handler {
	handlerLog := log.With(
		logger.NewField("handler", "order_status_patch"),
	)

	return &Handler{
		log:      handlerLog,
		service:  service,
		validate: validate,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, orderID := vars["tenant_id"], vars["order_id"]

	var statusUpdateDTO dto.OrderStatusUpdate
	err := json.NewDecoder(r.Body).Decode(&statusUpdateDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err = h.validate.Struct(statusUpdateDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), tenantID, orderID, entities.OrderStatusType(statusUpdateDTO.Status))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidTenantID),
			errors.Is(err, order.ErrInvalidOrderID),
			errors.Is(err, order.ErrInvalidStatus):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, order.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, order.ErrTransitionNotAllowed):
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, order.ErrStore):
			h.log.With(
				logger.NewField("error", err),
				logger.NewField("tenant_id", tenantID),
				logger.NewField("order_id", orderID),
			).Error("update order status")
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(converters.OrderToDTO(*updated))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
