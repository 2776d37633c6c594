package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestAPIKeyAuthMissing verifies requests without a key are rejected with
// 401 and a JSON error body before reaching the handler.
func TestAPIKeyAuthMissing(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
		t.Errorf("expected a JSON error body, got %q", rec.Body.String())
	}
}

// TestAPIKeyAuthWrong verifies an incorrect key yields 403.
func TestAPIKeyAuthWrong(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets", nil)
	req.Header.Set("X-API-Key", "nope")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// TestAPIKeyAuthValid verifies the correct key passes through.
func TestAPIKeyAuthValid(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sets", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestCORSPreflight verifies OPTIONS requests short-circuit with headers.
func TestCORSPreflight(t *testing.T) {
	h := CORS(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sets", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

// TestRequestLoggingCapturesStatus verifies the wrapper records the
// handler's status code rather than the default.
func TestRequestLoggingCapturesStatus(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
