package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/disasterprep/backend/internal/catalog"
	"github.com/disasterprep/backend/internal/generator"
	"github.com/disasterprep/backend/internal/models"
)

var (
	ErrUnknownModule     = errors.New("unknown module")
	ErrModuleIneligible  = errors.New("module not available for this student")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// ModuleCatalog is the subset of the catalog store the quiz service needs.
type ModuleCatalog interface {
	GetModule(moduleID string) (*models.DisasterModule, error)
}

// QuizCache is the persistence capability behind the generate-once policy.
type QuizCache interface {
	GetCachedQuiz(moduleID string, difficulty models.Difficulty) ([]models.QuizQuestion, error)
	SaveQuiz(moduleID string, difficulty models.Difficulty, quiz *generator.GeneratedQuiz, modelUsed string, promptTokens, outputTokens, generationTimeMs int) error
}

type Service struct {
	store   QuizCache
	catalog ModuleCatalog
	gen     *generator.Generator
}

func NewService(store QuizCache, cat ModuleCatalog, gen *generator.Generator) *Service {
	return &Service{store: store, catalog: cat, gen: gen}
}

// GetQuiz returns the quiz for a module at a difficulty, generating and
// caching one on first request. The region gate applies here just as it does
// on the module list: a student outside a location-based module's region
// cannot pull its quiz directly.
func (s *Service) GetQuiz(ctx context.Context, moduleID string, difficulty models.Difficulty, region models.Region) (*models.QuizResponse, error) {
	if !models.ValidDifficulties[difficulty] {
		return nil, ErrInvalidDifficulty
	}

	module, err := s.eligibleModule(moduleID, region)
	if err != nil {
		return nil, err
	}

	cached, err := s.store.GetCachedQuiz(moduleID, difficulty)
	if err != nil {
		return nil, fmt.Errorf("load cached quiz: %w", err)
	}
	if cached != nil {
		return &models.QuizResponse{ModuleID: moduleID, Difficulty: difficulty, Questions: cached}, nil
	}

	start := time.Now()
	generated, llmResp, err := s.gen.GenerateQuiz(ctx, module.Name, difficulty)
	if err != nil {
		return nil, fmt.Errorf("generate quiz for %s/%s: %w", moduleID, difficulty, err)
	}
	elapsed := int(time.Since(start).Milliseconds())

	if err := s.store.SaveQuiz(moduleID, difficulty, generated, s.gen.ModelName(), llmResp.PromptTokens, llmResp.OutputTokens, elapsed); err != nil {
		// The student still gets their quiz; only the cache write failed.
		log.Printf("[quiz] cache save for %s/%s failed: %v", moduleID, difficulty, err)
	}

	questions := make([]models.QuizQuestion, 0, len(generated.Questions))
	for _, q := range generated.Questions {
		opts := make([]models.QuizOption, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, models.QuizOption{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		questions = append(questions, models.QuizQuestion{
			QuestionText: q.QuestionText,
			Options:      opts,
			Explanation:  q.Explanation,
		})
	}

	return &models.QuizResponse{ModuleID: moduleID, Difficulty: difficulty, Questions: questions}, nil
}

// GetSafetyInfo returns the pre-quiz safety cards for a module. Curated
// static cards win over generated ones.
func (s *Service) GetSafetyInfo(ctx context.Context, moduleID string, region models.Region) (*models.SafetyInfoResponse, error) {
	module, err := s.eligibleModule(moduleID, region)
	if err != nil {
		return nil, err
	}

	if cards := StaticSafetyInfo(moduleID); cards != nil {
		return &models.SafetyInfoResponse{ModuleID: moduleID, Cards: cards, Source: "static"}, nil
	}

	generated, _, err := s.gen.GenerateSafetyInfo(ctx, module.Name, module.IsLocationBased)
	if err != nil {
		return nil, fmt.Errorf("generate safety info for %s: %w", moduleID, err)
	}

	cards := make([]models.SafetyInfoCard, 0, len(generated.Cards))
	for _, c := range generated.Cards {
		cards = append(cards, models.SafetyInfoCard{Title: c.Title, Points: c.Points})
	}

	return &models.SafetyInfoResponse{ModuleID: moduleID, Cards: cards, Source: "generated"}, nil
}

func (s *Service) eligibleModule(moduleID string, region models.Region) (*models.DisasterModule, error) {
	module, err := s.catalog.GetModule(moduleID)
	if err != nil {
		return nil, fmt.Errorf("lookup module %s: %w", moduleID, err)
	}
	if module == nil {
		return nil, ErrUnknownModule
	}
	if !catalog.EligibleForStudent(*module, region) {
		return nil, ErrModuleIneligible
	}
	return module, nil
}
