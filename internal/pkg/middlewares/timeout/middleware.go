package timeout

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
)

// Middleware ограничивает время запроса. Роуты с именами из skipRoutes (долгие SSE-стримы)
// живут до закрытия соединения или остановки сервера.
func Middleware(limit time.Duration, skipRoutes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if route := mux.CurrentRoute(r); route != nil && slices.Contains(skipRoutes, route.GetName()) {
				next.ServeHTTP(w, r)
				return
			}

			// r.Context() = ongoingCtx (из BaseContext)
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
