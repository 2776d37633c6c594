package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/ReedRawlings/fitnotes-sub003/internal/storage"
	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createSetRequest struct {
	ExerciseID   uuid.UUID  `json:"exercise_id"`
	ExerciseName string     `json:"exercise_name"`
	LoggedAt     *time.Time `json:"logged_at"`
	Order        *int       `json:"set_order"`
	Weight       float64    `json:"weight"`
	Reps         int        `json:"reps"`
	RPE          *float64   `json:"rpe"`
	RIR          *float64   `json:"rir"`
	Completed    bool       `json:"completed"`
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	exerciseID := req.ExerciseID
	if exerciseID == uuid.Nil {
		if req.ExerciseName == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id or exercise_name required"})
			return
		}
		ex, err := s.db.EnsureExercise(r.Context(), req.ExerciseName)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		exerciseID = ex.ID
	}

	set := models.LoggedSet{
		ExerciseID: exerciseID,
		LoggedAt:   time.Now(),
		Order:      -1, // append to the day's session
		Weight:     req.Weight,
		Reps:       req.Reps,
		RPE:        req.RPE,
		RIR:        req.RIR,
		Completed:  req.Completed,
	}
	if req.LoggedAt != nil {
		set.LoggedAt = *req.LoggedAt
	}
	if req.Order != nil {
		set.Order = *req.Order
	}

	if err := workout.ValidateSet(models.LoggedSet{Weight: set.Weight, Reps: set.Reps}); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	stored, err := s.db.InsertSet(r.Context(), set)
	if err != nil {
		s.log.Error("insert set failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

type updateSetRequest struct {
	Weight    float64  `json:"weight"`
	Reps      int      `json:"reps"`
	RPE       *float64 `json:"rpe"`
	RIR       *float64 `json:"rir"`
	Completed bool     `json:"completed"`
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := workout.ValidateSet(models.LoggedSet{Weight: req.Weight, Reps: req.Reps}); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	stored, err := s.db.UpdateSet(r.Context(), models.LoggedSet{
		ID:        id,
		Weight:    req.Weight,
		Reps:      req.Reps,
		RPE:       req.RPE,
		RIR:       req.RIR,
		Completed: req.Completed,
	})
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}

	err = s.db.DeleteSet(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	ex, err := s.db.GetExercise(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

type progressionConfigRequest struct {
	TargetRepMin *int    `json:"target_rep_min"`
	TargetRepMax *int    `json:"target_rep_max"`
	Increment    float64 `json:"increment"`
	AutoProgress bool    `json:"auto_progress"`
}

func (s *Server) handlePutProgressionConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	var req progressionConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if (req.TargetRepMin == nil) != (req.TargetRepMax == nil) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_rep_min and target_rep_max must be set together"})
		return
	}
	if req.TargetRepMin != nil && (*req.TargetRepMin <= 0 || *req.TargetRepMax < *req.TargetRepMin) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target rep range must satisfy 0 < min <= max"})
		return
	}
	if req.Increment < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "increment must be non-negative"})
		return
	}

	ex, err := s.db.UpdateProgressionConfig(r.Context(), id, req.TargetRepMin, req.TargetRepMax, req.Increment, req.AutoProgress)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	date := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		date, err = parseFlexTime(d, s.svc.Grouper().Loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
			return
		}
	}

	sets, err := s.svc.Session(r.Context(), id, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":   s.svc.Grouper().DayOf(date).Format("2006-01-02"),
		"sets":   sets,
		"volume": workout.TotalVolume(sets),
	})
}

func (s *Server) handleLastSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	var excluding *time.Time
	if d := r.URL.Query().Get("excluding"); d != "" {
		t, err := parseFlexTime(d, s.svc.Grouper().Loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid excluding date: " + err.Error()})
			return
		}
		excluding = &t
	}

	sets, err := s.svc.LastSession(r.Context(), id, excluding)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sets == nil {
		// No prior session is an expected empty state, not an error.
		writeJSON(w, http.StatusOK, map[string]any{"sets": []models.LoggedSet{}, "volume": 0})
		return
	}

	resp := map[string]any{
		"date":   s.svc.Grouper().DayOf(sets[0].LoggedAt).Format("2006-01-02"),
		"sets":   sets,
		"volume": workout.TotalVolume(sets),
	}
	if e, ok := workout.EstimatedOneRepMax(sets); ok {
		resp["e1rm"] = e
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProgressionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	asOf := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		asOf, err = parseFlexTime(d, s.svc.Grouper().Loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
			return
		}
	}

	st, err := s.svc.ProgressionStatus(r.Context(), id, asOf)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, presentStatus(st, s.weightUnit))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	hist, err := s.svc.History(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r, s.svc.Grouper().Loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := "1 week"
	switch r.URL.Query().Get("bucket") {
	case "daily":
		bucket = "1 day"
	case "monthly":
		bucket = "1 month"
	case "weekly", "":
	}

	summary, err := s.db.GetTrainingSummary(r.Context(), start, end, bucket)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseFlexTime accepts RFC3339 or a bare date. Date-only values are
// interpreted in loc, the same location the grouper buckets days in, so a
// query for a calendar day answers for that day in every timezone.
func parseFlexTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

func parseTimeRange(r *http.Request, loc *time.Location) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = parseFlexTime(endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(endStr) == len("2006-01-02") {
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}

	if startStr == "" {
		// Default: the 12 weeks leading up to end
		start = end.AddDate(0, 0, -84)
	} else {
		start, err = parseFlexTime(startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return
}
