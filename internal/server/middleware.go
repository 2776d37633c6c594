package server

import (
	"log/slog"
	"net/http"
	"time"
)

// APIKeyAuth returns middleware gating mutating routes on the X-API-Key
// header. Errors come back as JSON like every other response in this API.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch key := r.Header.Get("X-API-Key"); {
			case key == "":
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing API key"})
			case key != apiKey:
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid API key"})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequestLogging returns middleware that logs one line per request with the
// handler's final status.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive headers so a local client can talk to the API from
// any origin, and short-circuits preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code a handler writes, defaulting to
// 200 when the handler never calls WriteHeader.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
