package storage

import (
	"context"
	"fmt"
	"time"
)

// VolumePeriodSummary holds aggregated training volume for one period.
// Only completed sets count, the same policy the in-memory metrics apply.
type VolumePeriodSummary struct {
	Period            string  `json:"period"`
	Sessions          int     `json:"sessions"`
	WorkingSets       int     `json:"working_sets"`
	TotalReps         int     `json:"total_reps"`
	Tonnage           float64 `json:"tonnage"`
	AvgSetsPerSession float64 `json:"avg_sets_per_session"`
}

// GetTrainingSummary returns per-period session counts, completed working
// sets, reps, and tonnage across all exercises.
func (db *DB) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]VolumePeriodSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, logged_at AT TIME ZONE $4)::date AS period,
		        COUNT(DISTINCT (exercise_id, (logged_at AT TIME ZONE $4)::date))::int AS sessions,
		        COUNT(*) FILTER (WHERE completed)::int AS working_sets,
		        COALESCE(SUM(reps) FILTER (WHERE completed), 0)::int AS total_reps,
		        COALESCE(SUM(weight * reps) FILTER (WHERE completed), 0) AS tonnage
		 FROM logged_sets
		 WHERE logged_at >= $2 AND logged_at < $3
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), start, end, db.tz)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var result []VolumePeriodSummary
	for rows.Next() {
		var periodTime time.Time
		var v VolumePeriodSummary
		if err := rows.Scan(&periodTime, &v.Sessions, &v.WorkingSets, &v.TotalReps, &v.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		if v.Sessions > 0 {
			v.AvgSetsPerSession = float64(v.WorkingSets) / float64(v.Sessions)
		}
		v.Period = periodTime.Format("2006-01-02")
		result = append(result, v)
	}
	return result, rows.Err()
}

// truncInterval converts bucket strings like "1 month" to the interval name
// that date_trunc expects.
func truncInterval(bucket string) string {
	switch bucket {
	case "1 day":
		return "day"
	case "1 week":
		return "week"
	case "1 month":
		return "month"
	default:
		return "week"
	}
}
