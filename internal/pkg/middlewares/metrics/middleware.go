package metrics

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"restboard/pkg/logger"
)

// Middleware метрики и access-лог. Роуты из streamRoutes (SSE по имени mux-роута) живут часами,
// поэтому для них вместо гистограммы запросов пишутся открытые стримы и время жизни.
func Middleware(log handlerLogger, streamRoutes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := RouteTemplate(r)
			stream := isStreamRoute(r, streamRoutes)

			if stream {
				OpenStreams.WithLabelValues(route).Inc()
				defer OpenStreams.WithLabelValues(route).Dec()
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			status := strconv.Itoa(rw.statusCode)

			HTTPRequestTotal.WithLabelValues(r.Method, route, status).Inc()
			if stream {
				StreamLifetime.WithLabelValues(route).Observe(duration.Seconds())
			} else {
				HTTPRequestDuration.WithLabelValues(r.Method, route, status).Observe(duration.Seconds())
			}

			reqLog := log.With(
				logger.NewField("method", r.Method),
				logger.NewField("path", r.URL.Path),
				logger.NewField("route", route),
				logger.NewField("status", status),
				logger.NewField("duration", duration.String()),
			)
			if rw.statusCode >= http.StatusInternalServerError {
				reqLog.Error("HTTP request")
				return
			}
			reqLog.Info("HTTP request")
		})
	}
}

// RouteTemplate шаблон mux-роута, чтобы tenant_id не раздувал кардинальность метрик.
func RouteTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return r.URL.Path
}

func isStreamRoute(r *http.Request, streamRoutes []string) bool {
	route := mux.CurrentRoute(r)
	return route != nil && route.GetName() != "" && slices.Contains(streamRoutes, route.GetName())
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush нужен SSE-стриму, без него события застревают в буфере.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap для http.ResponseController (дедлайны записи в стриме).
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
