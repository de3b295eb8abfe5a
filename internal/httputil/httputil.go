package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a chi router with request IDs, panic recovery, request
// logging and a per-request timeout. The timeout must cover one page fetch
// plus one model call.
func NewRouter(log *slog.Logger, timeout time.Duration) *chi.Mux {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(timeout))
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))

	return r
}

// WriteJSON encodes body as the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Health is the body served by HealthHandler.
type Health struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// HealthHandler reports liveness and whether the model pipelines were
// initialized. A missing model degrades the service but does not fail the
// health check: the session endpoints still answer with a descriptive error.
func HealthHandler(modelReady func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := Health{Status: "ok", Model: "available"}
		if !modelReady() {
			h = Health{Status: "degraded", Model: "unavailable"}
		}
		WriteJSON(w, http.StatusOK, h)
	}
}

// RequestLogger logs one line per request. Probe and scrape paths log at
// debug so they do not drown session traffic.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			level := slog.LevelInfo
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				level = slog.LevelDebug
			}
			log.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Recoverer turns a handler panic into a JSON 500 so clients always get the
// same error shape.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()))
				WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Fail writes an error response with consistent logging. Client errors are
// logged at warn level.
func Fail(log *slog.Logger, w http.ResponseWriter, message string, err error, status int) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status < http.StatusInternalServerError {
		log.Warn(message, "err", err, "status", status)
	} else {
		log.Error(message, "err", err, "status", status)
	}
	WriteJSON(w, status, map[string]string{"error": message})
}
