package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/resttimer"
	"github.com/google/uuid"
)

func timerServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Server{
		timer:       resttimer.New(log),
		log:         log,
		defaultRest: 90 * time.Second,
	}
}

// TestStartTimerDefaultDuration verifies a start without an explicit
// duration uses the configured default rest interval.
func TestStartTimerDefaultDuration(t *testing.T) {
	s := timerServer()
	body := `{"exercise_id":"` + uuid.NewString() + `","set_number":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rest-timer", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleStartTimer(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp timerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.State != resttimer.StateRunning {
		t.Errorf("state = %s, want running", resp.State)
	}
	if resp.DurationSeconds != 90 {
		t.Errorf("duration = %ds, want 90s default", resp.DurationSeconds)
	}
	if resp.ID == nil {
		t.Error("expected a timer ID")
	}
}

// TestStartTimerRejectsNegativeDuration verifies boundary validation maps
// to 400.
func TestStartTimerRejectsNegativeDuration(t *testing.T) {
	s := timerServer()
	body := `{"exercise_id":"` + uuid.NewString() + `","set_number":1,"duration_seconds":-5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rest-timer", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleStartTimer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestSkipTimerReturnsIdle verifies skip responds with the idle projection.
func TestSkipTimerReturnsIdle(t *testing.T) {
	s := timerServer()
	if _, err := s.timer.Start(uuid.New(), 1, time.Minute); err != nil {
		t.Fatalf("start: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rest-timer", nil)
	rec := httptest.NewRecorder()
	s.handleSkipTimer(rec, req)

	var resp timerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.State != resttimer.StateIdle {
		t.Errorf("state = %s, want idle", resp.State)
	}
	if resp.ID != nil {
		t.Error("idle projection should carry no timer ID")
	}
}

// TestGetTimerIdle verifies the read endpoint's idle shape.
func TestGetTimerIdle(t *testing.T) {
	s := timerServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rest-timer", nil)
	rec := httptest.NewRecorder()

	s.handleGetTimer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp timerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.State != resttimer.StateIdle {
		t.Errorf("state = %s, want idle", resp.State)
	}
}
