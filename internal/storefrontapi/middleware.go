package storefrontapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/observability"
)

// requestIDHeader is the header storefront callers use to correlate their
// page render with our logs.
const requestIDHeader = "X-Request-ID"

// RequestID honors an incoming X-Request-ID header and generates a UUID
// when absent, storing it in the chi request id context slot so downstream
// middleware and handlers see a single id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs each request and records the storefront plane metrics.
// The route pattern, not the raw path, labels the metrics to keep the
// cardinality bounded across product ids.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}

		observability.StorefrontReqDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())
		observability.StorefrontReqTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()

		log := logger.FromContext(r.Context())
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", args...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", args...)
		default:
			log.Info("request completed", args...)
		}
	})
}
