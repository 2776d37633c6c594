package workout

import (
	"sort"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/google/uuid"
)

// Grouper partitions logged sets into per-exercise, per-calendar-day
// sessions. The location is injected so day-boundary semantics are explicit
// rather than whatever the host system happens to be set to.
type Grouper struct {
	Loc *time.Location
}

// NewGrouper creates a Grouper. A nil location falls back to UTC.
func NewGrouper(loc *time.Location) Grouper {
	if loc == nil {
		loc = time.UTC
	}
	return Grouper{Loc: loc}
}

// DayOf truncates t to midnight of its calendar day in the grouper's
// location. All session map keys are produced by this function.
func (g Grouper) DayOf(t time.Time) time.Time {
	y, m, d := t.In(g.Loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.Loc)
}

// SessionsByDate partitions the given exercise's sets by calendar day.
// Every matching input set lands in exactly one bucket; time-of-day
// differences within the same day merge. Within a bucket, sets are ordered
// by their session order.
func (g Grouper) SessionsByDate(exerciseID uuid.UUID, sets []models.LoggedSet) map[time.Time][]models.LoggedSet {
	sessions := make(map[time.Time][]models.LoggedSet)
	for _, s := range sets {
		if s.ExerciseID != exerciseID {
			continue
		}
		day := g.DayOf(s.LoggedAt)
		sessions[day] = append(sessions[day], s)
	}
	for day := range sessions {
		sortByOrder(sessions[day])
	}
	return sessions
}

// LatestSessionBefore returns the sets of the most recent calendar day
// strictly earlier than date, optionally also excluding one exact day
// (pass today to make "last session" mean the prior workout rather than the
// one in progress). Returns nil when no earlier day has sets. An excluded
// day equal to the target date excludes by day equality only; it never
// skips an extra day.
func (g Grouper) LatestSessionBefore(exerciseID uuid.UUID, date time.Time, excluding *time.Time, sets []models.LoggedSet) []models.LoggedSet {
	sessions := g.SessionsByDate(exerciseID, sets)
	cutoff := g.DayOf(date)

	var excluded time.Time
	if excluding != nil {
		excluded = g.DayOf(*excluding)
	}

	var best time.Time
	for day := range sessions {
		if !day.Before(cutoff) {
			continue
		}
		if excluding != nil && day.Equal(excluded) {
			continue
		}
		if best.IsZero() || day.After(best) {
			best = day
		}
	}
	if best.IsZero() {
		return nil
	}
	return sessions[best]
}

// SetsForDay returns the exercise's sets on the exact calendar day of date,
// ordered by session order. Used for "today's" session during tracking.
func (g Grouper) SetsForDay(exerciseID uuid.UUID, date time.Time, sets []models.LoggedSet) []models.LoggedSet {
	day := g.DayOf(date)
	var out []models.LoggedSet
	for _, s := range sets {
		if s.ExerciseID != exerciseID {
			continue
		}
		if g.DayOf(s.LoggedAt).Equal(day) {
			out = append(out, s)
		}
	}
	sortByOrder(out)
	return out
}

// SessionDays returns the session day keys for an exercise, newest first.
func (g Grouper) SessionDays(exerciseID uuid.UUID, sets []models.LoggedSet) []time.Time {
	sessions := g.SessionsByDate(exerciseID, sets)
	days := make([]time.Time, 0, len(sessions))
	for day := range sessions {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

func sortByOrder(sets []models.LoggedSet) {
	sort.Slice(sets, func(i, j int) bool { return sets[i].Order < sets[j].Order })
}
