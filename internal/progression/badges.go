package progression

import "github.com/disasterprep/backend/internal/models"

// BadgeKind enumerates the badge predicates. Evaluation dispatches through an
// exhaustive switch so a new kind without a rule fails to compile rather than
// silently never unlocking.
type BadgeKind int

const (
	// KindFirstStep unlocks on the very first completed (module, difficulty)
	// pair — exactly one completion total, counted after the event applies.
	KindFirstStep BadgeKind = iota
	// KindHighScorer unlocks when the triggering event scores >= 80%.
	KindHighScorer
	// KindPerfectScore unlocks when the triggering event scores 100%.
	KindPerfectScore
	// KindModuleCertified unlocks when a specific module has all three
	// difficulty tiers completed.
	KindModuleCertified
	// KindAllModules unlocks when every module in the catalog has all three
	// tiers completed.
	KindAllModules
)

// BadgeDef is one immutable catalog entry.
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Kind        BadgeKind
	// ModuleID is set only for KindModuleCertified.
	ModuleID string
}

// Catalog is the fixed badge catalog, in display order. Order does not affect
// evaluation results.
var Catalog = []BadgeDef{
	{ID: "first-step", Name: "First Responder", Description: "Complete your first module.", Kind: KindFirstStep},
	{ID: "high-scorer", Name: "High Scorer", Description: "Achieve a score of 80% or higher on any quiz.", Kind: KindHighScorer},
	{ID: "perfect-score", Name: "Perfectionist", Description: "Get a perfect 100% score on any quiz.", Kind: KindPerfectScore},
	{ID: "fire-certified", Name: "Fire Certified", Description: "Complete the Fire Safety module.", Kind: KindModuleCertified, ModuleID: "fire-safety"},
	{ID: "earthquake-expert", Name: "Earthquake Expert", Description: "Complete the Earthquake Prep module.", Kind: KindModuleCertified, ModuleID: "earthquake"},
	{ID: "flood-ready", Name: "Flood Ready", Description: "Complete the Flood Awareness module.", Kind: KindModuleCertified, ModuleID: "flood"},
	{ID: "hurricane-hero", Name: "Hurricane Hero", Description: "Complete the Hurricane Drill module.", Kind: KindModuleCertified, ModuleID: "hurricane-drill"},
	{ID: "preparedness-pro", Name: "Preparedness Pro", Description: "Complete all available modules.", Kind: KindAllModules},
}

// EvaluateBadges returns the ids of badges newly earned by a record that has
// already absorbed the triggering event. Badges already present in
// EarnedBadges are skipped, so repeated evaluation against an unchanged
// record yields an empty delta. Earned badges are never revoked, even if a
// replay later lowers the score that unlocked one.
//
// eventPercent is the triggering event's score percentage; first-step,
// high-scorer and perfect-score are judged against the event, not resting
// state.
func EvaluateBadges(record *models.StudentProfile, modules []models.DisasterModule, eventPercent int) []string {
	var earned []string
	for _, def := range Catalog {
		if record.HasBadge(def.ID) {
			continue
		}
		if badgeEarned(def, record, modules, eventPercent) {
			earned = append(earned, def.ID)
		}
	}
	return earned
}

func badgeEarned(def BadgeDef, record *models.StudentProfile, modules []models.DisasterModule, eventPercent int) bool {
	switch def.Kind {
	case KindFirstStep:
		return record.TotalCompletions() == 1
	case KindHighScorer:
		return eventPercent >= 80
	case KindPerfectScore:
		return eventPercent == 100
	case KindModuleCertified:
		return len(record.CompletedDifficulties[def.ModuleID]) == len(models.AllDifficulties)
	case KindAllModules:
		for _, m := range modules {
			if len(record.CompletedDifficulties[m.ID]) != len(models.AllDifficulties) {
				return false
			}
		}
		return len(modules) > 0
	}
	return false
}

// MergeBadges unions newly earned badge ids into the record, preserving
// order of first acquisition.
func MergeBadges(record *models.StudentProfile, newBadges []string) {
	for _, id := range newBadges {
		if !record.HasBadge(id) {
			record.EarnedBadges = append(record.EarnedBadges, id)
		}
	}
}
