package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseFlexTime accepts RFC3339 or a bare date. Date-only values are
// interpreted in loc so the answer covers that calendar day in the
// configured timezone, not its UTC shadow.
func parseFlexTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

// defaultTimeRange returns start/end defaulting to the last 12 weeks.
func defaultTimeRange(startStr, endStr string, loc *time.Location) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -84)
	}

	return start, end, nil
}

// resolveExercise accepts either a UUID or a (case-insensitive, partial)
// exercise name.
func (h *handlers) resolveExercise(ctx context.Context, ref string) (*models.Exercise, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return h.ds.GetExercise(ctx, id)
	}

	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(ref)
	for _, ex := range exercises {
		if strings.ToLower(ex.Name) == needle {
			return &ex, nil
		}
	}
	for _, ex := range exercises {
		if strings.Contains(strings.ToLower(ex.Name), needle) {
			return &ex, nil
		}
	}
	return nil, fmt.Errorf("no exercise matches %q", ref)
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise library with per-exercise progression settings (target rep range, increment, auto-progress)."),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get all logged sets for one exercise on one calendar day, with session volume and estimated 1RM."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match) or UUID")),
	mcp.WithString("date", mcp.Description("Calendar day (YYYY-MM-DD). Defaults to today.")),
)

var toolGetLastSession = mcp.NewTool("get_last_session",
	mcp.WithDescription("Get the most recent prior session for an exercise. Optionally exclude a day (typically today) so an in-progress workout does not count."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match) or UUID")),
	mcp.WithString("excluding", mcp.Description("Day to exclude (YYYY-MM-DD), e.g. today while a session is in progress")),
)

var toolGetProgressionStatus = mcp.NewTool("get_progression_status",
	mcp.WithDescription("Progressive-overload recommendation from the two most recent sessions vs the target rep range: increase weight, add reps, hold, or rebuild."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match) or UUID")),
	mcp.WithString("date", mcp.Description("Analyze as of this day (YYYY-MM-DD). Defaults to today.")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Session-by-session history for an exercise: date, sets, volume, top set, estimated 1RM. Newest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match) or UUID")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Aggregated training volume per period: sessions, completed working sets, reps, tonnage."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 12 weeks ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to '1 week'."), mcp.Enum("1 day", "1 week", "1 month")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	ex, err := h.resolveExercise(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	date := time.Now()
	if d := req.GetString("date", ""); d != "" {
		date, err = parseFlexTime(d, h.svc.Grouper().Loc)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	sets, err := h.svc.Session(ctx, ex.ID, date)
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	payload := map[string]any{
		"exercise": ex.Name,
		"date":     h.svc.Grouper().DayOf(date).Format("2006-01-02"),
		"sets":     sets,
		"volume":   workout.TotalVolume(sets),
		"unit":     h.unit,
	}
	if e, ok := workout.EstimatedOneRepMax(sets); ok {
		payload["e1rm"] = e
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	ex, err := h.resolveExercise(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var excluding *time.Time
	if d := req.GetString("excluding", ""); d != "" {
		t, err := parseFlexTime(d, h.svc.Grouper().Loc)
		if err != nil {
			return mcp.NewToolResultError("invalid excluding date: " + err.Error()), nil
		}
		excluding = &t
	}

	sets, err := h.svc.LastSession(ctx, ex.ID, excluding)
	if err != nil {
		h.log.Error("mcp get_last_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	payload := map[string]any{"exercise": ex.Name, "unit": h.unit}
	if sets == nil {
		payload["sets"] = []models.LoggedSet{}
	} else {
		payload["date"] = h.svc.Grouper().DayOf(sets[0].LoggedAt).Format("2006-01-02")
		payload["sets"] = sets
		payload["volume"] = workout.TotalVolume(sets)
		if e, ok := workout.EstimatedOneRepMax(sets); ok {
			payload["e1rm"] = e
		}
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	ex, err := h.resolveExercise(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	asOf := time.Now()
	if d := req.GetString("date", ""); d != "" {
		asOf, err = parseFlexTime(d, h.svc.Grouper().Loc)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	st, err := h.svc.ProgressionStatus(ctx, ex.ID, asOf)
	if err != nil {
		h.log.Error("mcp get_progression_status", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": ex.Name,
		"unit":     h.unit,
		"status":   st,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	ex, err := h.resolveExercise(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	hist, err := h.svc.History(ctx, ex.ID)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": ex.Name,
		"unit":     h.unit,
		"sessions": hist,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), h.svc.Grouper().Loc)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	bucket := req.GetString("bucket", "1 week")

	summary, err := h.ds.GetTrainingSummary(ctx, start, end, bucket)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"fitnotes://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with their progression settings and default working weight"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(exercises)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
