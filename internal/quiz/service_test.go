package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/disasterprep/backend/internal/generator"
	"github.com/disasterprep/backend/internal/models"
)

type fakeCache struct {
	cached map[string][]models.QuizQuestion
	saves  int
}

func cacheKey(moduleID string, d models.Difficulty) string {
	return moduleID + "/" + string(d)
}

func (f *fakeCache) GetCachedQuiz(moduleID string, difficulty models.Difficulty) ([]models.QuizQuestion, error) {
	return f.cached[cacheKey(moduleID, difficulty)], nil
}

func (f *fakeCache) SaveQuiz(moduleID string, difficulty models.Difficulty, quiz *generator.GeneratedQuiz, modelUsed string, promptTokens, outputTokens, generationTimeMs int) error {
	f.saves++
	questions := make([]models.QuizQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		opts := make([]models.QuizOption, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, models.QuizOption{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		questions = append(questions, models.QuizQuestion{QuestionText: q.QuestionText, Options: opts, Explanation: q.Explanation})
	}
	f.cached[cacheKey(moduleID, difficulty)] = questions
	return nil
}

type fakeCatalog struct {
	modules map[string]models.DisasterModule
}

func (f *fakeCatalog) GetModule(moduleID string) (*models.DisasterModule, error) {
	m, ok := f.modules[moduleID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func newTestService(t *testing.T) (*fakeCache, *Service) {
	t.Setenv("MOCK_GENERATOR", "true")

	coastal := models.RegionCoastal
	cache := &fakeCache{cached: map[string][]models.QuizQuestion{}}
	cat := &fakeCatalog{modules: map[string]models.DisasterModule{
		"fire-safety":     {ID: "fire-safety", Name: "Fire Safety", Status: models.StatusActive},
		"flood":           {ID: "flood", Name: "Flood Awareness", Status: models.StatusActive},
		"hurricane-drill": {ID: "hurricane-drill", Name: "Hurricane Drill", IsLocationBased: true, RequiredRegion: &coastal, Status: models.StatusActive},
		"legacy":          {ID: "legacy", Name: "Legacy Drill", Status: models.StatusInactive},
	}}
	return cache, NewService(cache, cat, generator.NewGenerator())
}

func TestGetQuizGeneratesOnceThenServesCache(t *testing.T) {
	cache, svc := newTestService(t)

	first, err := svc.GetQuiz(context.Background(), "fire-safety", models.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("first GetQuiz failed: %v", err)
	}
	if len(first.Questions) != generator.QuizQuestionCount {
		t.Errorf("questions = %d, want %d", len(first.Questions), generator.QuizQuestionCount)
	}
	if cache.saves != 1 {
		t.Errorf("cache saves = %d, want 1", cache.saves)
	}

	second, err := svc.GetQuiz(context.Background(), "fire-safety", models.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("second GetQuiz failed: %v", err)
	}
	if cache.saves != 1 {
		t.Errorf("cache saves after repeat = %d, want 1 (served from cache)", cache.saves)
	}
	if len(second.Questions) != len(first.Questions) {
		t.Errorf("cached quiz has %d questions, want %d", len(second.Questions), len(first.Questions))
	}
}

func TestGetQuizValidation(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GetQuiz(ctx, "fire-safety", "Extreme", ""); !errors.Is(err, ErrInvalidDifficulty) {
		t.Errorf("bad difficulty: err = %v, want ErrInvalidDifficulty", err)
	}
	if _, err := svc.GetQuiz(ctx, "asteroid", models.DifficultyEasy, ""); !errors.Is(err, ErrUnknownModule) {
		t.Errorf("unknown module: err = %v, want ErrUnknownModule", err)
	}
	if _, err := svc.GetQuiz(ctx, "legacy", models.DifficultyEasy, ""); !errors.Is(err, ErrModuleIneligible) {
		t.Errorf("inactive module: err = %v, want ErrModuleIneligible", err)
	}
}

func TestGetQuizRegionGate(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GetQuiz(ctx, "hurricane-drill", models.DifficultyEasy, ""); !errors.Is(err, ErrModuleIneligible) {
		t.Errorf("no region: err = %v, want ErrModuleIneligible", err)
	}
	if _, err := svc.GetQuiz(ctx, "hurricane-drill", models.DifficultyEasy, models.RegionFaultLine); !errors.Is(err, ErrModuleIneligible) {
		t.Errorf("wrong region: err = %v, want ErrModuleIneligible", err)
	}
	if _, err := svc.GetQuiz(ctx, "hurricane-drill", models.DifficultyEasy, models.RegionCoastal); err != nil {
		t.Errorf("coastal student blocked from coastal drill: %v", err)
	}
}

func TestGetSafetyInfoStaticOverrideWins(t *testing.T) {
	_, svc := newTestService(t)

	resp, err := svc.GetSafetyInfo(context.Background(), "flood", "")
	if err != nil {
		t.Fatalf("GetSafetyInfo failed: %v", err)
	}
	if resp.Source != "static" {
		t.Errorf("source = %s, want static", resp.Source)
	}
	if len(resp.Cards) != 3 {
		t.Errorf("cards = %d, want 3", len(resp.Cards))
	}
	if resp.Cards[0].Title != "Before a Flood" {
		t.Errorf("first card = %q, want curated flood card", resp.Cards[0].Title)
	}
}

func TestGetSafetyInfoFallsBackToGenerated(t *testing.T) {
	_, svc := newTestService(t)

	resp, err := svc.GetSafetyInfo(context.Background(), "fire-safety", "")
	if err != nil {
		t.Fatalf("GetSafetyInfo failed: %v", err)
	}
	if resp.Source != "generated" {
		t.Errorf("source = %s, want generated", resp.Source)
	}
	if len(resp.Cards) == 0 {
		t.Error("no cards returned from generator")
	}
}
