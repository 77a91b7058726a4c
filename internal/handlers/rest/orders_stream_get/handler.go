package orders_stream_get

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"restboard/internal/entities"
	"restboard/internal/handlers/rest/converters"
	"restboard/internal/handlers/rest/sse"
	"restboard/internal/service/order"
	"restboard/pkg/logger"
)

const eventName = "orders"

// Handler живая очередь заказов тенанта. На каждое подключение своя лента,
// которая закрывается вместе с запросом.
type Handler struct {
	log          handlerLogger
	feed         Feed
	queue        Queue
	heartbeat    time.Duration
	writeTimeout time.Duration
}

func New(log handlerLogger, feed Feed, queue Queue, heartbeat, writeTimeout time.Duration) *Handler {
	handlerLog := log.With(
		logger.NewField("handler", "orders_stream_get"),
	)

	return &Handler{
		log:          handlerLog,
		feed:         feed,
		queue:        queue,
		heartbeat:    heartbeat,
		writeTimeout: writeTimeout,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenant_id"]
	if strings.TrimSpace(tenantID) == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	statusFilter, err := order.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	reqLog := h.log.With(
		logger.NewField("tenant_id", tenantID),
		logger.NewField("status", statusFilter),
	)

	stream, err := sse.Open(w, h.writeTimeout)
	if err != nil {
		reqLog.With(
			logger.NewField("error", err),
		).Error("open event stream")
		return
	}

	run := func(ctx context.Context, put func([]entities.Order)) error {
		return h.feed.Run(ctx, tenantID, put)
	}
	render := func(orders []entities.Order) any {
		return converters.OrdersToDTO(h.queue.FilterQueue(orders, statusFilter))
	}

	err = sse.Serve(r.Context(), stream, eventName, h.heartbeat, run, render)
	if err != nil {
		reqLog.With(
			logger.NewField("error", err),
		).Warn("order stream closed")
	}
}
