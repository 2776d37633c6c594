package workout

import (
	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
)

// TotalVolume returns the sum of weight x reps over completed sets.
// Incomplete (unchecked) sets contribute nothing: session volume shown to
// the user only counts work actually performed. Empty input returns 0.
func TotalVolume(sets []models.LoggedSet) float64 {
	var total float64
	for _, s := range sets {
		if !s.Completed {
			continue
		}
		total += s.Weight * float64(s.Reps)
	}
	return total
}

// EstimatedOneRepMax derives an Epley one-rep-max estimate from the set with
// the highest projected 1RM: weight x (1 + reps/30). A single rep returns
// the weight unchanged. Sets with zero reps carry no estimate; when no set
// qualifies the second return is false. Ties on the estimate go to the set
// with the higher raw weight, since a heavier single is more informative
// than more reps at the same projection. Pure function of the set, not the
// input order.
func EstimatedOneRepMax(sets []models.LoggedSet) (float64, bool) {
	var (
		best       float64
		bestWeight float64
		found      bool
	)
	for _, s := range sets {
		if s.Reps < 1 {
			continue
		}
		e := epley(s.Weight, s.Reps)
		if !found || e > best || (e == best && s.Weight > bestWeight) {
			best = e
			bestWeight = s.Weight
			found = true
		}
	}
	return best, found
}

func epley(weight float64, reps int) float64 {
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}
