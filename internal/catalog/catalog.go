package catalog

import "github.com/disasterprep/backend/internal/models"

// EligibleForStudent reports whether a module is offerable to a student. Only
// Active modules are eligible, and location-based modules additionally
// require the student's resolved region to match. An empty region means the
// student's location is unknown, which locks every location-based module.
func EligibleForStudent(m models.DisasterModule, region models.Region) bool {
	if m.Status != models.StatusActive {
		return false
	}
	if m.IsLocationBased {
		if m.RequiredRegion == nil {
			return false
		}
		return region != "" && *m.RequiredRegion == region
	}
	return true
}

// FilterEligible returns the modules offerable to a student in the given
// region, preserving catalog order.
func FilterEligible(modules []models.DisasterModule, region models.Region) []models.DisasterModule {
	eligible := []models.DisasterModule{}
	for _, m := range modules {
		if EligibleForStudent(m, region) {
			eligible = append(eligible, m)
		}
	}
	return eligible
}
