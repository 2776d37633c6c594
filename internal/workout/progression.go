package workout

import (
	"math"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
)

// StatusKind tags the progression state derived from the latest two
// sessions. Recomputed on every query, never persisted.
type StatusKind string

const (
	StatusInsufficientData        StatusKind = "insufficient_data"
	StatusMaintainingBelowTarget  StatusKind = "maintaining_below_target"
	StatusProgressingTowardTarget StatusKind = "progressing_toward_target"
	StatusReadyToIncreaseReps     StatusKind = "ready_to_increase_reps"
	StatusReadyToIncreaseWeight   StatusKind = "ready_to_increase_weight"
	StatusDecliningPerformance    StatusKind = "declining_performance"
	StatusRecentlyRegressed       StatusKind = "recently_regressed"
)

// Status is the analysis result: the tagged kind plus the numbers a
// presenter needs to render a message. Message text itself is a
// presentation concern and lives with the callers.
type Status struct {
	Kind StatusKind `json:"kind"`

	CurrentTopWeight float64 `json:"current_top_weight"`
	CurrentTopReps   int     `json:"current_top_reps"`
	PriorTopWeight   float64 `json:"prior_top_weight"`
	PriorTopReps     int     `json:"prior_top_reps"`
	CurrentVolume    float64 `json:"current_volume"`
	PriorVolume      float64 `json:"prior_volume"`

	// VolumeDelta is the fractional change vs the prior session
	// ((current-prior)/prior); zero when the prior volume is zero.
	VolumeDelta float64 `json:"volume_delta"`
	RepsDelta   int     `json:"reps_delta"`

	// SuggestedWeight is set when the status recommends a resistance
	// increase: prior weight plus the exercise's configured increment.
	SuggestedWeight *float64 `json:"suggested_weight,omitempty"`
}

// ProgressionConfig is the per-exercise input to analysis. A missing target
// range disables analysis entirely (InsufficientData, not an error).
type ProgressionConfig struct {
	TargetRepMin *int
	TargetRepMax *int
	Increment    float64
	AutoProgress bool
}

// ConfigFromExercise extracts the analyzer inputs from a stored exercise.
func ConfigFromExercise(ex models.Exercise) ProgressionConfig {
	return ProgressionConfig{
		TargetRepMin: ex.TargetRepMin,
		TargetRepMax: ex.TargetRepMax,
		Increment:    ex.Increment,
		AutoProgress: ex.AutoProgress,
	}
}

// DefaultDeclineTolerance is the fractional drop in top-set reps or session
// volume below which session-to-session noise is ignored.
const DefaultDeclineTolerance = 0.10

// Analyzer compares the two most recent sessions of an exercise against a
// target rep range. The decline tolerance is tunable configuration, not a
// fixed constant.
type Analyzer struct {
	DeclineTolerance float64
}

// NewAnalyzer returns an Analyzer with the default decline tolerance.
func NewAnalyzer() Analyzer {
	return Analyzer{DeclineTolerance: DefaultDeclineTolerance}
}

// Analyze derives the progression status from the current session, the
// immediately prior session, and (for regression recovery detection) the
// session before that. twoAgo may be nil. Only completed sets count, the
// same policy TotalVolume applies. Analyze is pure: the auto-progress
// write-back it may recommend is the caller's side effect.
func (a Analyzer) Analyze(current, prior, twoAgo []models.LoggedSet, cfg ProgressionConfig) Status {
	st := Status{Kind: StatusInsufficientData}
	if cfg.TargetRepMin == nil || cfg.TargetRepMax == nil {
		return st
	}

	curTop, okCur := topSet(current)
	priTop, okPri := topSet(prior)
	if !okCur || !okPri {
		return st
	}

	st.CurrentTopWeight = curTop.Weight
	st.CurrentTopReps = curTop.Reps
	st.PriorTopWeight = priTop.Weight
	st.PriorTopReps = priTop.Reps
	st.CurrentVolume = TotalVolume(current)
	st.PriorVolume = TotalVolume(prior)
	st.RepsDelta = curTop.Reps - priTop.Reps
	if st.PriorVolume > 0 {
		st.VolumeDelta = (st.CurrentVolume - st.PriorVolume) / st.PriorVolume
	}

	// Resistance dropped outright.
	if curTop.Weight < priTop.Weight {
		st.Kind = StatusRecentlyRegressed
		return st
	}

	// Weight held or rose but output fell beyond tolerance.
	repsDrop := fracDrop(float64(priTop.Reps), float64(curTop.Reps))
	volDrop := fracDrop(st.PriorVolume, st.CurrentVolume)
	if repsDrop > a.DeclineTolerance || volDrop > a.DeclineTolerance {
		st.Kind = StatusDecliningPerformance
		return st
	}

	// Recovering leg of a regression: the prior session dropped weight from
	// two sessions ago and the current session has restored it.
	if ancTop, ok := topSet(twoAgo); ok {
		if priTop.Weight < ancTop.Weight && curTop.Weight >= priTop.Weight {
			st.Kind = StatusRecentlyRegressed
			return st
		}
	}

	minReps, maxReps := *cfg.TargetRepMin, *cfg.TargetRepMax
	switch {
	case curTop.Reps < minReps:
		st.Kind = StatusMaintainingBelowTarget
	case curTop.Reps < maxReps:
		st.Kind = StatusProgressingTowardTarget
	case sameWeight(curTop.Weight, priTop.Weight) && priTop.Reps >= maxReps:
		// Second consecutive session at target-max reps without a load
		// change: time to add weight.
		st.Kind = StatusReadyToIncreaseWeight
		suggested := curTop.Weight + cfg.Increment
		st.SuggestedWeight = &suggested
	case sameWeight(curTop.Weight, priTop.Weight):
		st.Kind = StatusReadyToIncreaseReps
	default:
		// Hit target-max reps on the first session at a heavier load;
		// consolidate before recommending another increase.
		st.Kind = StatusProgressingTowardTarget
	}
	return st
}

// topSet returns the heaviest completed set, breaking weight ties toward
// higher reps. ok is false when the session has no completed work.
func topSet(sets []models.LoggedSet) (models.LoggedSet, bool) {
	var top models.LoggedSet
	found := false
	for _, s := range sets {
		if !s.Completed {
			continue
		}
		if !found || s.Weight > top.Weight || (s.Weight == top.Weight && s.Reps > top.Reps) {
			top = s
			found = true
		}
	}
	return top, found
}

func fracDrop(prior, current float64) float64 {
	if prior <= 0 || current >= prior {
		return 0
	}
	return (prior - current) / prior
}

func sameWeight(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
