package progression

import (
	"math"

	"github.com/disasterprep/backend/internal/models"
)

// QuizLength is the fixed number of questions per scenario quiz. A raw score
// is always in [0, QuizLength].
const QuizLength = 5

// UpdateResult is the output of applying one completion event. IsNewCompletion
// is the single authoritative signal consumed by both the badge engine and the
// aggregate rollup — callers must not recompute it.
type UpdateResult struct {
	Record          models.StudentProfile
	ScorePercent    int
	IsNewCompletion bool
}

// Apply folds a completion event into a progress record and returns the next
// record. It is a pure transformation: the input record is not mutated, no
// I/O happens, and persistence is the caller's responsibility.
//
// Completion is idempotent: a re-attempt of an already-completed difficulty
// overwrites score and stars but does not duplicate the completion entry.
func Apply(record models.StudentProfile, event models.CompletionEvent) UpdateResult {
	next := cloneProfile(record)

	scorePercent := int(math.Round(float64(event.Score) / float64(QuizLength) * 100))
	isNew := !record.HasCompleted(event.ModuleID, event.Difficulty)

	if isNew {
		next.CompletedDifficulties[event.ModuleID] = append(next.CompletedDifficulties[event.ModuleID], event.Difficulty)
	}

	if next.ModuleScores[event.ModuleID] == nil {
		next.ModuleScores[event.ModuleID] = make(map[models.Difficulty]int)
	}
	next.ModuleScores[event.ModuleID][event.Difficulty] = scorePercent

	if next.ModuleStars[event.ModuleID] == nil {
		next.ModuleStars[event.ModuleID] = make(map[models.Difficulty]int)
	}
	next.ModuleStars[event.ModuleID][event.Difficulty] = event.Stars

	return UpdateResult{
		Record:          next,
		ScorePercent:    scorePercent,
		IsNewCompletion: isNew,
	}
}

func cloneProfile(p models.StudentProfile) models.StudentProfile {
	next := p

	next.CompletedDifficulties = make(map[string][]models.Difficulty, len(p.CompletedDifficulties))
	for id, diffs := range p.CompletedDifficulties {
		next.CompletedDifficulties[id] = append([]models.Difficulty(nil), diffs...)
	}

	next.ModuleScores = cloneTierMap(p.ModuleScores)
	next.ModuleStars = cloneTierMap(p.ModuleStars)
	next.EarnedBadges = append([]string(nil), p.EarnedBadges...)

	return next
}

func cloneTierMap(m map[string]map[models.Difficulty]int) map[string]map[models.Difficulty]int {
	out := make(map[string]map[models.Difficulty]int, len(m))
	for id, tiers := range m {
		inner := make(map[models.Difficulty]int, len(tiers))
		for d, v := range tiers {
			inner[d] = v
		}
		out[id] = inner
	}
	return out
}
