package healthcheck_head

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	checkTimeout    = time.Second
	unhealthyHeader = "X-Unhealthy"
)

// Check проверка зависимости: postgres, redis.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Handler readiness: 503, пока сервис останавливается или любая зависимость не отвечает.
// Имена упавших проверок уходят в X-Unhealthy, у HEAD нет тела.
type Handler struct {
	isShuttingDown *atomic.Bool
	checks         []Check
}

func New(isShuttingDown *atomic.Bool, checks ...Check) *Handler {
	return &Handler{
		isShuttingDown: isShuttingDown,
		checks:         checks,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isShuttingDown.Load() {
		w.Header().Set(unhealthyHeader, "shutting-down")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if failed := h.probe(r.Context()); len(failed) > 0 {
		w.Header().Set(unhealthyHeader, strings.Join(failed, ","))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// probe опрашивает зависимости параллельно: ответ не дольше самой медленной.
func (h *Handler) probe(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed []string
		group  errgroup.Group
	)
	for _, check := range h.checks {
		group.Go(func() error {
			if err := check.Probe(ctx); err != nil {
				mu.Lock()
				failed = append(failed, check.Name)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	slices.Sort(failed)
	return failed
}
