package catalog

import (
	"testing"

	"github.com/disasterprep/backend/internal/models"
)

func regionPtr(r models.Region) *models.Region {
	return &r
}

func TestEligibleForStudent(t *testing.T) {
	coastal := models.DisasterModule{
		ID: "hurricane-drill", IsLocationBased: true,
		RequiredRegion: regionPtr(models.RegionCoastal), Status: models.StatusActive,
	}

	tests := []struct {
		name   string
		module models.DisasterModule
		region models.Region
		want   bool
	}{
		{"active global module", models.DisasterModule{ID: "fire-safety", Status: models.StatusActive}, "", true},
		{"inactive module", models.DisasterModule{ID: "fire-safety", Status: models.StatusInactive}, "", false},
		{"under maintenance", models.DisasterModule{ID: "fire-safety", Status: models.StatusUnderMaintenance}, "", false},
		{"coastal module, coastal student", coastal, models.RegionCoastal, true},
		{"coastal module, fault-line student", coastal, models.RegionFaultLine, false},
		{"coastal module, unknown location", coastal, "", false},
		{"location-based without required region", models.DisasterModule{ID: "odd", IsLocationBased: true, Status: models.StatusActive}, models.RegionCoastal, false},
	}

	for _, tt := range tests {
		if got := EligibleForStudent(tt.module, tt.region); got != tt.want {
			t.Errorf("%s: EligibleForStudent = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilterEligiblePreservesOrder(t *testing.T) {
	modules := []models.DisasterModule{
		{ID: "fire-safety", Status: models.StatusActive},
		{ID: "earthquake", Status: models.StatusUnderMaintenance},
		{ID: "flood", Status: models.StatusActive},
		{ID: "hurricane-drill", IsLocationBased: true, RequiredRegion: regionPtr(models.RegionCoastal), Status: models.StatusActive},
	}

	got := FilterEligible(modules, models.RegionCoastal)
	wantIDs := []string{"fire-safety", "flood", "hurricane-drill"}
	if len(got) != len(wantIDs) {
		t.Fatalf("eligible count = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("eligible[%d] = %s, want %s", i, got[i].ID, id)
		}
	}

	// Unknown location: the coastal drill drops out.
	got = FilterEligible(modules, "")
	if len(got) != 2 {
		t.Fatalf("eligible count without region = %d, want 2", len(got))
	}
}

func TestFilterEligibleEmptyCatalog(t *testing.T) {
	got := FilterEligible(nil, models.RegionCoastal)
	if got == nil || len(got) != 0 {
		t.Errorf("FilterEligible(nil) = %v, want empty non-nil slice", got)
	}
}
