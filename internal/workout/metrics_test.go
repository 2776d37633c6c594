package workout

import (
	"math"
	"testing"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/google/uuid"
)

func mkSet(weight float64, reps int, completed bool) models.LoggedSet {
	return models.LoggedSet{
		ID:         uuid.New(),
		ExerciseID: uuid.New(),
		LoggedAt:   time.Now(),
		Weight:     weight,
		Reps:       reps,
		Completed:  completed,
	}
}

// TestTotalVolumeSum verifies volume is the arithmetic sum of weight x reps
// over completed sets.
func TestTotalVolumeSum(t *testing.T) {
	sets := []models.LoggedSet{
		mkSet(100, 10, true),
		mkSet(80, 8, true),
		mkSet(60, 12, true),
	}
	want := 100.0*10 + 80.0*8 + 60.0*12
	if got := TotalVolume(sets); got != want {
		t.Errorf("TotalVolume = %v, want %v", got, want)
	}
}

// TestTotalVolumeEmpty verifies the empty session has zero volume.
func TestTotalVolumeEmpty(t *testing.T) {
	if got := TotalVolume(nil); got != 0 {
		t.Errorf("TotalVolume(nil) = %v, want 0", got)
	}
}

// TestTotalVolumeSkipsIncomplete verifies unchecked sets contribute nothing.
func TestTotalVolumeSkipsIncomplete(t *testing.T) {
	sets := []models.LoggedSet{
		mkSet(100, 10, true),
		mkSet(200, 10, false),
	}
	if got := TotalVolume(sets); got != 1000 {
		t.Errorf("TotalVolume = %v, want 1000", got)
	}
}

// TestE1RMSingleRep verifies a one-rep set estimates exactly its weight.
func TestE1RMSingleRep(t *testing.T) {
	e, ok := EstimatedOneRepMax([]models.LoggedSet{mkSet(142.5, 1, true)})
	if !ok {
		t.Fatal("expected an estimate")
	}
	if e != 142.5 {
		t.Errorf("e1rm = %v, want 142.5", e)
	}
}

// TestE1RMEpley verifies the multi-rep estimate follows weight x (1+reps/30).
func TestE1RMEpley(t *testing.T) {
	e, ok := EstimatedOneRepMax([]models.LoggedSet{mkSet(100, 10, true)})
	if !ok {
		t.Fatal("expected an estimate")
	}
	want := 100 * (1 + 10.0/30)
	if math.Abs(e-want) > 1e-9 {
		t.Errorf("e1rm = %v, want %v", e, want)
	}
}

// TestE1RMOrderInvariant verifies the estimate is a function of the set, not
// the input sequence.
func TestE1RMOrderInvariant(t *testing.T) {
	a := mkSet(100, 10, true)
	b := mkSet(120, 3, true)
	c := mkSet(90, 15, true)

	e1, ok1 := EstimatedOneRepMax([]models.LoggedSet{a, b, c})
	e2, ok2 := EstimatedOneRepMax([]models.LoggedSet{c, a, b})
	if !ok1 || !ok2 {
		t.Fatal("expected estimates for both orderings")
	}
	if e1 != e2 {
		t.Errorf("estimate depends on order: %v vs %v", e1, e2)
	}
}

// TestE1RMNoQualifyingSets verifies that zero reps everywhere means no
// estimate rather than a zero estimate.
func TestE1RMNoQualifyingSets(t *testing.T) {
	if _, ok := EstimatedOneRepMax(nil); ok {
		t.Error("empty list should have no estimate")
	}
	if _, ok := EstimatedOneRepMax([]models.LoggedSet{mkSet(100, 0, true)}); ok {
		t.Error("all-zero-reps list should have no estimate")
	}
}

// TestE1RMTieBreakHigherWeight verifies that two sets projecting the same
// estimate resolve stably toward the heavier raw weight regardless of input
// order. 120x1 and 90x10 both project to 120.
func TestE1RMTieBreakHigherWeight(t *testing.T) {
	single := mkSet(120, 1, true)
	volume := mkSet(90, 10, true)
	e, ok := EstimatedOneRepMax([]models.LoggedSet{volume, single})
	if !ok {
		t.Fatal("expected an estimate")
	}
	if e != 120 {
		t.Fatalf("e1rm = %v, want 120", e)
	}
	// Reverse order must produce the same winner.
	e2, _ := EstimatedOneRepMax([]models.LoggedSet{single, volume})
	if e2 != e {
		t.Errorf("tie-break depends on order: %v vs %v", e, e2)
	}
}
