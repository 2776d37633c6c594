package models

import (
	"time"

	"github.com/google/uuid"
)

// LoggedSet is one performed set, as stored in the logged_sets table.
// Weight is unit-agnostic; the configured display unit lives in config.
type LoggedSet struct {
	ID         uuid.UUID `json:"id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	LoggedAt   time.Time `json:"logged_at"`
	Order      int       `json:"set_order"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	RPE        *float64  `json:"rpe,omitempty"`
	RIR        *float64  `json:"rir,omitempty"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
