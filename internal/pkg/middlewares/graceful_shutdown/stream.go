package graceful_shutdown

import (
	"context"
	"net/http"
)

// CancelOnShutdown отменяет контекст долгих запросов (SSE) по сигналу остановки,
// иначе server.Shutdown ждал бы их до таймаута. Клиент переподключится к другому инстансу.
func CancelOnShutdown(shutdownCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithCancel(r.Context())
			defer cancel()

			stop := context.AfterFunc(shutdownCtx, cancel)
			defer stop()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
