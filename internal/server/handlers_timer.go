package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/resttimer"
	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/google/uuid"
)

type startTimerRequest struct {
	ExerciseID      uuid.UUID `json:"exercise_id"`
	SetNumber       int       `json:"set_number"`
	DurationSeconds int       `json:"duration_seconds"`
}

// timerResponse flattens a snapshot for JSON consumers, with remaining time
// in whole seconds for display countdowns.
type timerResponse struct {
	State            resttimer.State `json:"state"`
	ID               *uuid.UUID      `json:"id,omitempty"`
	ExerciseID       *uuid.UUID      `json:"exercise_id,omitempty"`
	SetNumber        int             `json:"set_number,omitempty"`
	DurationSeconds  int             `json:"duration_seconds,omitempty"`
	StartedAt        *time.Time      `json:"started_at,omitempty"`
	EndsAt           *time.Time      `json:"ends_at,omitempty"`
	RemainingSeconds int             `json:"remaining_seconds"`
}

func toTimerResponse(snap resttimer.Snapshot) timerResponse {
	resp := timerResponse{State: snap.State}
	if snap.State == resttimer.StateIdle {
		return resp
	}
	id := snap.ID
	ex := snap.ExerciseID
	started := snap.StartedAt
	ends := snap.EndsAt
	resp.ID = &id
	resp.ExerciseID = &ex
	resp.SetNumber = snap.SetNumber
	resp.DurationSeconds = int(snap.Duration / time.Second)
	resp.StartedAt = &started
	resp.EndsAt = &ends
	resp.RemainingSeconds = int(snap.Remaining / time.Second)
	return resp
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var req startTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	if req.DurationSeconds == 0 {
		duration = s.defaultRest
	}

	snap, err := s.timer.Start(req.ExerciseID, req.SetNumber, duration)
	if errors.Is(err, workout.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toTimerResponse(snap))
}

func (s *Server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTimerResponse(s.timer.Snapshot()))
}

func (s *Server) handleSkipTimer(w http.ResponseWriter, r *http.Request) {
	s.timer.Skip()
	writeJSON(w, http.StatusOK, toTimerResponse(s.timer.Snapshot()))
}

func (s *Server) handleAcknowledgeTimer(w http.ResponseWriter, r *http.Request) {
	s.timer.Acknowledge()
	writeJSON(w, http.StatusOK, toTimerResponse(s.timer.Snapshot()))
}
