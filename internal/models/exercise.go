package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is a library entry plus its per-exercise progression settings.
// TargetRepMin/Max are nil when no target range is configured, which
// disables progression analysis for the exercise.
type Exercise struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TargetRepMin  *int      `json:"target_rep_min,omitempty"`
	TargetRepMax  *int      `json:"target_rep_max,omitempty"`
	Increment     float64   `json:"increment"`
	AutoProgress  bool      `json:"auto_progress"`
	DefaultWeight float64   `json:"default_weight"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
