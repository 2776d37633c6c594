package server

import (
	"fmt"

	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
)

// presentedStatus is the wire form of a progression status: the raw
// analysis plus a rendered title and message. Keeping text out of the
// engine means the numbers stay exact and the copy can change freely.
type presentedStatus struct {
	workout.Status
	Title   string `json:"title"`
	Message string `json:"message"`
}

func presentStatus(st workout.Status, unit string) presentedStatus {
	return presentedStatus{
		Status:  st,
		Title:   statusTitle(st.Kind),
		Message: statusMessage(st, unit),
	}
}

func statusTitle(kind workout.StatusKind) string {
	switch kind {
	case workout.StatusInsufficientData:
		return "Not enough data"
	case workout.StatusMaintainingBelowTarget:
		return "Building up"
	case workout.StatusProgressingTowardTarget:
		return "Progressing"
	case workout.StatusReadyToIncreaseReps:
		return "Almost there"
	case workout.StatusReadyToIncreaseWeight:
		return "Increase the weight"
	case workout.StatusDecliningPerformance:
		return "Rough patch"
	case workout.StatusRecentlyRegressed:
		return "Rebuilding"
	default:
		return string(kind)
	}
}

func statusMessage(st workout.Status, unit string) string {
	switch st.Kind {
	case workout.StatusInsufficientData:
		return "Log at least two sessions and set a target rep range to get recommendations."
	case workout.StatusMaintainingBelowTarget:
		return fmt.Sprintf("Top set %d reps at %g %s. Work toward your target range before adding load.",
			st.CurrentTopReps, st.CurrentTopWeight, unit)
	case workout.StatusProgressingTowardTarget:
		return fmt.Sprintf("Top set %d reps at %g %s, up from %d. Keep pushing toward the top of the range.",
			st.CurrentTopReps, st.CurrentTopWeight, unit, st.PriorTopReps)
	case workout.StatusReadyToIncreaseReps:
		return fmt.Sprintf("You hit %d reps at %g %s. One more session at this level and it's time to add weight.",
			st.CurrentTopReps, st.CurrentTopWeight, unit)
	case workout.StatusReadyToIncreaseWeight:
		if st.SuggestedWeight != nil {
			return fmt.Sprintf("Two sessions at %d reps with %g %s. Load %g %s next time.",
				st.CurrentTopReps, st.CurrentTopWeight, unit, *st.SuggestedWeight, unit)
		}
		return fmt.Sprintf("Two sessions at %d reps with %g %s. Time to add weight.",
			st.CurrentTopReps, st.CurrentTopWeight, unit)
	case workout.StatusDecliningPerformance:
		return fmt.Sprintf("Volume moved %.0f%% vs last session. An off day happens; watch recovery.",
			st.VolumeDelta*100)
	case workout.StatusRecentlyRegressed:
		return fmt.Sprintf("Top set %g %s vs %g %s last time. Rebuild before chasing new numbers.",
			st.CurrentTopWeight, unit, st.PriorTopWeight, unit)
	default:
		return ""
	}
}
