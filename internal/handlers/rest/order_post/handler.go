package order_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
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
		logger.NewField("handler", "order_post"),
	)

	return &Handler{
		log:      handlerLog,
		service:  service,
		validate: validate,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenant_id"]

	var orderCreateDTO dto.OrderCreate
	err := json.NewDecoder(r.Body).Decode(&orderCreateDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err = h.validate.Struct(orderCreateDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	created, err := h.service.PlaceOrder(r.Context(), converters.OrderCreateFromDTO(tenantID, orderCreateDTO))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidTenantID),
			errors.Is(err, order.ErrInvalidCustomer),
			errors.Is(err, order.ErrInvalidOrderLines),
			errors.Is(err, order.ErrInvalidTotalAmount):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, order.ErrConflict):
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, order.ErrStore):
			h.log.With(
				logger.NewField("error", err),
				logger.NewField("tenant_id", tenantID),
			).Error("place order")
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(converters.OrderToDTO(*created))
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
