package statistics_stream_get

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"restboard/internal/entities"
	"restboard/internal/handlers/rest/converters"
	"restboard/internal/handlers/rest/sse"
	"restboard/internal/service/statistics"
	"restboard/pkg/logger"
)

const eventName = "statistics"

// Handler пересчитывает статистику на каждое изменение ленты заказов тенанта.
type Handler struct {
	log          handlerLogger
	feed         Feed
	statistics   Statistics
	heartbeat    time.Duration
	writeTimeout time.Duration
}

func New(log handlerLogger, feed Feed, statistics Statistics, heartbeat, writeTimeout time.Duration) *Handler {
	handlerLog := log.With(
		logger.NewField("handler", "statistics_stream_get"),
	)

	return &Handler{
		log:          handlerLog,
		feed:         feed,
		statistics:   statistics,
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

	timeRange, err := statistics.ParseTimeRange(r.URL.Query().Get("range"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	reqLog := h.log.With(
		logger.NewField("tenant_id", tenantID),
		logger.NewField("range", timeRange.String()),
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
		return converters.StatisticsToDTO(h.statistics.Compute(orders, timeRange))
	}

	err = sse.Serve(r.Context(), stream, eventName, h.heartbeat, run, render)
	if err != nil {
		reqLog.With(
			logger.NewField("error", err),
		).Warn("statistics stream closed")
	}
}
