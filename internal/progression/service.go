package progression

import (
	"errors"
	"fmt"
	"log"

	"github.com/disasterprep/backend/internal/models"
)

// Validation failures at the service boundary. The engines themselves are
// defined only for well-formed events.
var (
	ErrUnknownModule     = errors.New("unknown module")
	ErrModuleUnavailable = errors.New("module is not active")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidScore      = errors.New("score out of range")
	ErrInvalidStars      = errors.New("stars out of range")
)

// ProfileStore is the injected keyed persistence capability. Engines never
// touch it; only the service loads and saves records.
type ProfileStore interface {
	LoadProfile(userID int64) (*models.StudentProfile, error)
	UpsertCompletion(userID int64, moduleID string, difficulty models.Difficulty, scorePercent, stars int) error
	AwardBadges(userID int64, badges []string) error
	GetClassStats(className string) (*models.ClassStats, error)
	UpdateClassStats(cs *models.ClassStats) error
}

// ModuleCatalog supplies the module list used for event validation and the
// all-modules badge denominator.
type ModuleCatalog interface {
	ListModules() ([]models.DisasterModule, error)
	GetModule(id string) (*models.DisasterModule, error)
}

type Service struct {
	store   ProfileStore
	catalog ModuleCatalog
}

func NewService(store ProfileStore, catalog ModuleCatalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// CompleteQuiz runs the full completion pipeline: boundary validation, the
// pure progression update, badge evaluation against the post-event record,
// persistence, and — for novel completions only — the class aggregate rollup.
func (s *Service) CompleteQuiz(userID int64, req models.CompleteQuizRequest) (*models.CompleteQuizResponse, error) {
	if !models.ValidDifficulties[req.Difficulty] {
		return nil, ErrInvalidDifficulty
	}
	if req.Score < 0 || req.Score > QuizLength {
		return nil, ErrInvalidScore
	}
	if req.Stars < 0 || req.Stars > 3 {
		return nil, ErrInvalidStars
	}

	module, err := s.catalog.GetModule(req.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("look up module: %w", err)
	}
	if module == nil {
		return nil, ErrUnknownModule
	}
	if module.Status != models.StatusActive {
		return nil, ErrModuleUnavailable
	}

	record, err := s.store.LoadProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	event := models.CompletionEvent{
		ModuleID:   req.ModuleID,
		Difficulty: req.Difficulty,
		Score:      req.Score,
		Stars:      req.Stars,
	}

	result := Apply(*record, event)

	modules, err := s.catalog.ListModules()
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	newBadges := EvaluateBadges(&result.Record, modules, result.ScorePercent)
	MergeBadges(&result.Record, newBadges)

	if err := s.store.UpsertCompletion(userID, event.ModuleID, event.Difficulty, result.ScorePercent, event.Stars); err != nil {
		return nil, fmt.Errorf("save completion: %w", err)
	}
	if len(newBadges) > 0 {
		if err := s.store.AwardBadges(userID, newBadges); err != nil {
			return nil, fmt.Errorf("save badges: %w", err)
		}
	}

	if result.IsNewCompletion {
		s.rollupClassStats(result.Record.Details.ClassLabel())
	}

	if newBadges == nil {
		newBadges = []string{}
	}

	return &models.CompleteQuizResponse{
		ModuleID:        event.ModuleID,
		Difficulty:      event.Difficulty,
		ScorePercent:    result.ScorePercent,
		Stars:           event.Stars,
		IsNewCompletion: result.IsNewCompletion,
		NewBadges:       newBadges,
		EarnedBadges:    result.Record.EarnedBadges,
	}, nil
}

// rollupClassStats applies the aggregate rollup to the student's cohort.
// Cohorts without a seeded row pass through unchanged; aggregate failures
// never fail the completion itself.
func (s *Service) rollupClassStats(classLabel string) {
	stats, err := s.store.GetClassStats(classLabel)
	if err != nil {
		log.Printf("[progression] failed to get class stats for %q: %v", classLabel, err)
		return
	}
	if stats == nil {
		log.Printf("[progression] no class stats row for %q, skipping rollup", classLabel)
		return
	}

	next := Rollup(*stats)
	if err := s.store.UpdateClassStats(&next); err != nil {
		log.Printf("[progression] failed to update class stats for %q: %v", classLabel, err)
	}
}

// GetProgress builds the dashboard view: per-module completion state plus
// overall drill counts over the currently active catalog.
func (s *Service) GetProgress(userID int64) (*models.ProgressResponse, error) {
	record, err := s.store.LoadProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	modules, err := s.catalog.ListModules()
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	var moduleProgress []models.ModuleProgress
	available := 0
	for _, m := range modules {
		if m.Status != models.StatusActive {
			continue
		}
		available += len(models.AllDifficulties)

		completed := record.CompletedDifficulties[m.ID]
		if completed == nil {
			completed = []models.Difficulty{}
		}
		mp := models.ModuleProgress{
			ModuleID:              m.ID,
			CompletedDifficulties: completed,
			Scores:                record.ModuleScores[m.ID],
			Stars:                 record.ModuleStars[m.ID],
			FullyCompleted:        len(completed) == len(models.AllDifficulties),
		}
		moduleProgress = append(moduleProgress, mp)
	}

	drillsCompleted := record.TotalCompletions()
	progressPercent := 0
	if available > 0 {
		pct := float64(drillsCompleted) / float64(available) * 100
		if pct > 100 {
			pct = 100
		}
		progressPercent = int(pct)
	}

	return &models.ProgressResponse{
		Profile:         *record,
		Modules:         moduleProgress,
		DrillsCompleted: drillsCompleted,
		DrillsAvailable: available,
		ProgressPercent: progressPercent,
	}, nil
}
