package adminapi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/dmartinc/offerlock/internal/logger"
	"github.com/dmartinc/offerlock/internal/observability"
)

// RequestLogger logs each request with method, path, status, duration and
// request id, and records the admin plane metrics. The log level scales
// with the response status.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()

		observability.AdminReqDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
		observability.AdminReqTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(status)).Inc()

		log := logger.FromContext(r.Context())
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
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

// authenticateAPIKey validates the X-API-Key header against the configured
// SHA-256 hash using a constant-time comparison.
func (a *API) authenticateAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("X-API-Key")
		if key == "" {
			unauthorized(w, r)
			return
		}

		sum := sha256.Sum256([]byte(key))
		got := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.apiKeyHash)) != 1 {
			unauthorized(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, ErrorResponse{
		Code:    "ERR_UNAUTHORIZED",
		Message: "A valid X-API-Key header is required",
	})
}
