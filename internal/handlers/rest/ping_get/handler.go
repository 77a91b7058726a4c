package ping_get

import (
	"encoding/json"
	"net/http"

	"github.com/AlekSi/pointer"
	"restboard/internal/generated/dto"
	"restboard/pkg/logger"
)

type Handler struct {
	log   handlerLogger
	clock Clock
}

func New(log handlerLogger, clock Clock) *Handler {
	return &Handler{
		log:   log.With(logger.NewField("handler", "ping_get")),
		clock: clock,
	}
}

// ServeHTTP отдает часы дашборда: по ним считаются "сегодня" в очереди и статистике.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	now := h.clock.Now()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(dto.PingResponse{
		Message:  pointer.ToString("pong"),
		Time:     pointer.ToTime(now),
		Timezone: pointer.ToString(now.Location().String()),
	})
	if err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}
