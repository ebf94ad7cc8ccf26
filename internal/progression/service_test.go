package progression

import (
	"errors"
	"testing"

	"github.com/disasterprep/backend/internal/models"
)

// fakeStore keeps everything in memory so the service pipeline can run
// without Postgres.
type fakeStore struct {
	profile     models.StudentProfile
	classStats  map[string]models.ClassStats
	completions int
	badgeWrites int
}

func (f *fakeStore) LoadProfile(userID int64) (*models.StudentProfile, error) {
	p := f.profile
	return &p, nil
}

func (f *fakeStore) UpsertCompletion(userID int64, moduleID string, difficulty models.Difficulty, scorePercent, stars int) error {
	f.completions++
	if !f.profile.HasCompleted(moduleID, difficulty) {
		f.profile.CompletedDifficulties[moduleID] = append(f.profile.CompletedDifficulties[moduleID], difficulty)
	}
	if f.profile.ModuleScores[moduleID] == nil {
		f.profile.ModuleScores[moduleID] = map[models.Difficulty]int{}
	}
	f.profile.ModuleScores[moduleID][difficulty] = scorePercent
	if f.profile.ModuleStars[moduleID] == nil {
		f.profile.ModuleStars[moduleID] = map[models.Difficulty]int{}
	}
	f.profile.ModuleStars[moduleID][difficulty] = stars
	return nil
}

func (f *fakeStore) AwardBadges(userID int64, badges []string) error {
	f.badgeWrites++
	f.profile.EarnedBadges = append(f.profile.EarnedBadges, badges...)
	return nil
}

func (f *fakeStore) GetClassStats(className string) (*models.ClassStats, error) {
	cs, ok := f.classStats[className]
	if !ok {
		return nil, nil
	}
	return &cs, nil
}

func (f *fakeStore) UpdateClassStats(cs *models.ClassStats) error {
	f.classStats[cs.ClassName] = *cs
	return nil
}

type fakeCatalog struct {
	modules []models.DisasterModule
}

func (f *fakeCatalog) ListModules() ([]models.DisasterModule, error) {
	return f.modules, nil
}

func (f *fakeCatalog) GetModule(id string) (*models.DisasterModule, error) {
	for _, m := range f.modules {
		if m.ID == id {
			mod := m
			return &mod, nil
		}
	}
	return nil, nil
}

func newFakes() (*fakeStore, *fakeCatalog, *Service) {
	store := &fakeStore{
		profile: models.StudentProfile{
			UserID:                1,
			Details:               models.StudentDetails{Name: "Asha", ClassName: "CSE", Section: "A"},
			CompletedDifficulties: map[string][]models.Difficulty{},
			ModuleScores:          map[string]map[models.Difficulty]int{},
			ModuleStars:           map[string]map[models.Difficulty]int{},
		},
		classStats: map[string]models.ClassStats{
			"CSE A": {ClassName: "CSE A", PreparednessScore: 85, ModuleCompletion: 90, DrillParticipation: 80},
		},
	}
	cat := &fakeCatalog{modules: []models.DisasterModule{
		{ID: "fire-safety", Name: "Fire Safety", Status: models.StatusActive},
		{ID: "earthquake", Name: "Earthquake Prep", Status: models.StatusActive},
		{ID: "legacy", Name: "Legacy Drill", Status: models.StatusInactive},
	}}
	return store, cat, NewService(store, cat)
}

func TestCompleteQuizHappyPath(t *testing.T) {
	store, _, svc := newFakes()

	resp, err := svc.CompleteQuiz(1, models.CompleteQuizRequest{
		ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: 5, Stars: 3,
	})
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}

	if resp.ScorePercent != 100 {
		t.Errorf("ScorePercent = %d, want 100", resp.ScorePercent)
	}
	if !resp.IsNewCompletion {
		t.Error("first attempt should report a new completion")
	}
	for _, want := range []string{"first-step", "high-scorer", "perfect-score"} {
		if !contains(resp.NewBadges, want) {
			t.Errorf("NewBadges missing %s: %v", want, resp.NewBadges)
		}
	}
	if store.completions != 1 {
		t.Errorf("completion writes = %d, want 1", store.completions)
	}

	// Novel completion moved the cohort aggregates.
	cs := store.classStats["CSE A"]
	if cs.DrillParticipation != 82 || cs.ModuleCompletion != 92 || cs.PreparednessScore != 87 {
		t.Errorf("class stats after rollup = %+v", cs)
	}
}

func TestCompleteQuizReplaySkipsRollup(t *testing.T) {
	store, _, svc := newFakes()

	if _, err := svc.CompleteQuiz(1, models.CompleteQuizRequest{
		ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: 5, Stars: 3,
	}); err != nil {
		t.Fatalf("first attempt failed: %v", err)
	}

	resp, err := svc.CompleteQuiz(1, models.CompleteQuizRequest{
		ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: 2, Stars: 1,
	})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if resp.IsNewCompletion {
		t.Error("replay reported a new completion")
	}
	cs := store.classStats["CSE A"]
	if cs.DrillParticipation != 82 {
		t.Errorf("DrillParticipation = %d after replay, want 82 (single rollup)", cs.DrillParticipation)
	}
	// Replay still persisted the new score.
	if store.profile.ModuleScores["fire-safety"][models.DifficultyEasy] != 40 {
		t.Errorf("replayed score = %d, want 40", store.profile.ModuleScores["fire-safety"][models.DifficultyEasy])
	}
}

func TestCompleteQuizValidation(t *testing.T) {
	_, _, svc := newFakes()

	tests := []struct {
		name    string
		req     models.CompleteQuizRequest
		wantErr error
	}{
		{"bad difficulty", models.CompleteQuizRequest{ModuleID: "fire-safety", Difficulty: "Extreme", Score: 3, Stars: 1}, ErrInvalidDifficulty},
		{"score too high", models.CompleteQuizRequest{ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: 6, Stars: 1}, ErrInvalidScore},
		{"negative score", models.CompleteQuizRequest{ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: -1, Stars: 1}, ErrInvalidScore},
		{"stars too high", models.CompleteQuizRequest{ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: 3, Stars: 4}, ErrInvalidStars},
		{"unknown module", models.CompleteQuizRequest{ModuleID: "asteroid", Difficulty: models.DifficultyEasy, Score: 3, Stars: 1}, ErrUnknownModule},
		{"inactive module", models.CompleteQuizRequest{ModuleID: "legacy", Difficulty: models.DifficultyEasy, Score: 3, Stars: 1}, ErrModuleUnavailable},
	}

	for _, tt := range tests {
		_, err := svc.CompleteQuiz(1, tt.req)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestCompleteQuizUnseededCohort(t *testing.T) {
	store, _, svc := newFakes()
	store.profile.Details.ClassName = "MECH"
	store.profile.Details.Section = "C"

	// No class_stats row for "MECH C": the completion still succeeds.
	resp, err := svc.CompleteQuiz(1, models.CompleteQuizRequest{
		ModuleID: "fire-safety", Difficulty: models.DifficultyEasy, Score: 4, Stars: 2,
	})
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}
	if !resp.IsNewCompletion {
		t.Error("expected a new completion")
	}
	if _, ok := store.classStats["MECH C"]; ok {
		t.Error("rollup created a row for an unseeded cohort")
	}
}

func TestGetProgressCountsActiveModulesOnly(t *testing.T) {
	store, _, svc := newFakes()
	store.profile.CompletedDifficulties["fire-safety"] = []models.Difficulty{
		models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard,
	}

	resp, err := svc.GetProgress(1)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	// Two active modules, three tiers each; the inactive one is excluded.
	if resp.DrillsAvailable != 6 {
		t.Errorf("DrillsAvailable = %d, want 6", resp.DrillsAvailable)
	}
	if resp.DrillsCompleted != 3 {
		t.Errorf("DrillsCompleted = %d, want 3", resp.DrillsCompleted)
	}
	if resp.ProgressPercent != 50 {
		t.Errorf("ProgressPercent = %d, want 50", resp.ProgressPercent)
	}
	if len(resp.Modules) != 2 {
		t.Fatalf("module progress entries = %d, want 2", len(resp.Modules))
	}
	if !resp.Modules[0].FullyCompleted {
		t.Error("fire-safety should be fully completed")
	}
}
