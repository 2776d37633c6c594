package workout

import (
	"context"
	"log/slog"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/google/uuid"
)

// Repository is the persistence contract the engine depends on. The engine
// never assumes a storage engine; *storage.DB satisfies this in production.
type Repository interface {
	LoadSets(ctx context.Context, exerciseID uuid.UUID) ([]models.LoggedSet, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	SetExerciseDefaultWeight(ctx context.Context, id uuid.UUID, weight float64) error
}

// SessionSummary is one session day with its derived metrics, for history
// views. Computed on demand, never stored.
type SessionSummary struct {
	Date      time.Time         `json:"date"`
	Sets      []models.LoggedSet `json:"sets"`
	Volume    float64           `json:"volume"`
	E1RM      *float64          `json:"e1rm,omitempty"`
	TopWeight float64           `json:"top_weight"`
	TopReps   int               `json:"top_reps"`
}

// Service composes the repository with the grouping and progression logic
// and exposes the queries callers consume. All computation happens on a
// snapshot loaded per call; a failed or empty read degrades to the no-data
// result rather than an inconsistent state.
type Service struct {
	repo     Repository
	grouper  Grouper
	analyzer Analyzer
	log      *slog.Logger
}

// NewService wires a Service. loc controls day-boundary semantics;
// declineTolerance tunes the analyzer (pass DefaultDeclineTolerance when in
// doubt).
func NewService(repo Repository, loc *time.Location, declineTolerance float64, log *slog.Logger) *Service {
	if declineTolerance <= 0 {
		declineTolerance = DefaultDeclineTolerance
	}
	return &Service{
		repo:     repo,
		grouper:  NewGrouper(loc),
		analyzer: Analyzer{DeclineTolerance: declineTolerance},
		log:      log,
	}
}

// Grouper exposes the service's day-boundary rules to callers that need
// them (presenters, importers).
func (s *Service) Grouper() Grouper { return s.grouper }

// Session returns the exercise's sets on the calendar day of date, in
// session order. Empty result means no sets that day.
func (s *Service) Session(ctx context.Context, exerciseID uuid.UUID, date time.Time) ([]models.LoggedSet, error) {
	sets, err := s.repo.LoadSets(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	return s.grouper.SetsForDay(exerciseID, date, sets), nil
}

// LastSession returns the most recent session strictly before now,
// optionally excluding one exact day (typically today, so an in-progress
// session does not count as "last"). nil when no prior session exists.
func (s *Service) LastSession(ctx context.Context, exerciseID uuid.UUID, excluding *time.Time) ([]models.LoggedSet, error) {
	sets, err := s.repo.LoadSets(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	return s.grouper.LatestSessionBefore(exerciseID, time.Now(), excluding, sets), nil
}

// History returns one summary per session day, newest first.
func (s *Service) History(ctx context.Context, exerciseID uuid.UUID) ([]SessionSummary, error) {
	sets, err := s.repo.LoadSets(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	sessions := s.grouper.SessionsByDate(exerciseID, sets)
	days := s.grouper.SessionDays(exerciseID, sets)

	out := make([]SessionSummary, 0, len(days))
	for _, day := range days {
		daySets := sessions[day]
		sum := SessionSummary{
			Date:   day,
			Sets:   daySets,
			Volume: TotalVolume(daySets),
		}
		if e, ok := EstimatedOneRepMax(daySets); ok {
			sum.E1RM = &e
		}
		if top, ok := topSet(daySets); ok {
			sum.TopWeight = top.Weight
			sum.TopReps = top.Reps
		}
		out = append(out, sum)
	}
	return out, nil
}

// ProgressionStatus analyzes the exercise's two most recent sessions at or
// before asOf. When the exercise has auto-progress enabled and the status
// recommends a weight increase, the suggested weight is written back as the
// exercise's default for the next session; the analysis itself stays pure.
// Repository failures degrade to InsufficientData rather than surfacing an
// inconsistent result.
func (s *Service) ProgressionStatus(ctx context.Context, exerciseID uuid.UUID, asOf time.Time) (Status, error) {
	ex, err := s.repo.GetExercise(ctx, exerciseID)
	if err != nil {
		return Status{Kind: StatusInsufficientData}, err
	}

	sets, err := s.repo.LoadSets(ctx, exerciseID)
	if err != nil {
		s.log.Warn("loading sets failed, treating as no data", "exercise_id", exerciseID, "error", err)
		return Status{Kind: StatusInsufficientData}, nil
	}

	sessions := s.grouper.SessionsByDate(exerciseID, sets)
	cutoff := s.grouper.DayOf(asOf)

	var days []time.Time
	for _, day := range s.grouper.SessionDays(exerciseID, sets) {
		if !day.After(cutoff) {
			days = append(days, day)
		}
	}
	if len(days) < 2 {
		return Status{Kind: StatusInsufficientData}, nil
	}

	current := sessions[days[0]]
	prior := sessions[days[1]]
	var twoAgo []models.LoggedSet
	if len(days) > 2 {
		twoAgo = sessions[days[2]]
	}

	st := s.analyzer.Analyze(current, prior, twoAgo, ConfigFromExercise(*ex))

	if ex.AutoProgress && st.Kind == StatusReadyToIncreaseWeight && st.SuggestedWeight != nil {
		if err := s.repo.SetExerciseDefaultWeight(ctx, exerciseID, *st.SuggestedWeight); err != nil {
			s.log.Warn("auto-progress write-back failed", "exercise_id", exerciseID, "error", err)
		} else {
			s.log.Info("auto-progressed exercise",
				"exercise_id", exerciseID,
				"new_default_weight", *st.SuggestedWeight)
		}
	}

	return st, nil
}
