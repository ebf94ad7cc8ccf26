package progression

import (
	"math"

	"github.com/disasterprep/backend/internal/models"
)

// Fixed rollup policy: each novel completion moves participation and
// completion by the same step, capped at the ceiling; preparedness is the
// rounded mean of the two.
const (
	aggregateStep    = 2
	aggregateCeiling = 100
)

// Rollup folds one novel completion into a cohort's aggregates and returns
// the next value. Pure; the caller decides which cohort row it applies to
// and only invokes it when the triggering completion was new.
func Rollup(stats models.ClassStats) models.ClassStats {
	next := stats
	next.DrillParticipation = capped(stats.DrillParticipation + aggregateStep)
	next.ModuleCompletion = capped(stats.ModuleCompletion + aggregateStep)
	next.PreparednessScore = int(math.Round(float64(next.ModuleCompletion+next.DrillParticipation) / 2))
	return next
}

func capped(v int) int {
	if v > aggregateCeiling {
		return aggregateCeiling
	}
	return v
}
