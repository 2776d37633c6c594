package workout

import (
	"errors"
	"fmt"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
)

// ErrInvalidInput marks inputs rejected at the boundary: negative weight or
// reps, non-positive durations. Expected empty states (no prior session, no
// configured target range) are never errors.
var ErrInvalidInput = errors.New("invalid input")

// ValidateSet rejects malformed set values before they enter storage or any
// computation. Values are never silently clamped.
func ValidateSet(s models.LoggedSet) error {
	if s.Weight < 0 {
		return fmt.Errorf("%w: weight %v is negative", ErrInvalidInput, s.Weight)
	}
	if s.Reps < 0 {
		return fmt.Errorf("%w: reps %d is negative", ErrInvalidInput, s.Reps)
	}
	if s.Order < 0 {
		return fmt.Errorf("%w: set order %d is negative", ErrInvalidInput, s.Order)
	}
	return nil
}
