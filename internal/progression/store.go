package progression

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/disasterprep/backend/internal/models"
)

// ErrProfileNotFound is returned when no account exists for the given id.
var ErrProfileNotFound = errors.New("profile not found")

// Store is the keyed profile/aggregate persistence layer. It carries no
// business rules; the engines operate on records the store loads and saves.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Profile Load ────────────────────────────────────────

func (s *Store) LoadProfile(userID int64) (*models.StudentProfile, error) {
	p := &models.StudentProfile{
		UserID:                userID,
		CompletedDifficulties: make(map[string][]models.Difficulty),
		ModuleScores:          make(map[string]map[models.Difficulty]int),
		ModuleStars:           make(map[string]map[models.Difficulty]int),
		EarnedBadges:          []string{},
	}

	var avatarURL sql.NullString
	err := s.db.QueryRow(
		`SELECT name, age, class_name, section, email, avatar_url, has_seen_tutorial
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&p.Details.Name, &p.Details.Age, &p.Details.ClassName, &p.Details.Section,
		&p.Details.Email, &avatarURL, &p.HasSeenTutorial)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p.Details.AvatarURL = avatarURL.String
	p.Details.EmergencyContacts = []models.EmergencyContact{}

	contacts, err := s.db.Query(
		`SELECT name, phone FROM emergency_contacts WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	defer contacts.Close()
	for contacts.Next() {
		var c models.EmergencyContact
		if err := contacts.Scan(&c.Name, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		p.Details.EmergencyContacts = append(p.Details.EmergencyContacts, c)
	}
	if err := contacts.Err(); err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	completions, err := s.db.Query(
		`SELECT module_id, difficulty, score_percent, stars
		 FROM module_completions WHERE user_id = $1 ORDER BY completed_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	defer completions.Close()
	for completions.Next() {
		var moduleID string
		var difficulty models.Difficulty
		var scorePercent, stars int
		if err := completions.Scan(&moduleID, &difficulty, &scorePercent, &stars); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		p.CompletedDifficulties[moduleID] = append(p.CompletedDifficulties[moduleID], difficulty)
		if p.ModuleScores[moduleID] == nil {
			p.ModuleScores[moduleID] = make(map[models.Difficulty]int)
		}
		p.ModuleScores[moduleID][difficulty] = scorePercent
		if p.ModuleStars[moduleID] == nil {
			p.ModuleStars[moduleID] = make(map[models.Difficulty]int)
		}
		p.ModuleStars[moduleID][difficulty] = stars
	}
	if err := completions.Err(); err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	badges, err := s.db.Query(
		`SELECT badge FROM earned_badges WHERE user_id = $1 ORDER BY earned_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	defer badges.Close()
	for badges.Next() {
		var badge string
		if err := badges.Scan(&badge); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		p.EarnedBadges = append(p.EarnedBadges, badge)
	}
	if err := badges.Err(); err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}

	return p, nil
}

// ── Profile Save ────────────────────────────────────────

// UpsertCompletion records one (module, difficulty) completion with
// last-write-wins score and stars. The unique constraint gives completion
// its set semantics.
func (s *Store) UpsertCompletion(userID int64, moduleID string, difficulty models.Difficulty, scorePercent, stars int) error {
	_, err := s.db.Exec(
		`INSERT INTO module_completions (user_id, module_id, difficulty, score_percent, stars)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, module_id, difficulty)
		 DO UPDATE SET score_percent = $4, stars = $5, updated_at = NOW()`,
		userID, moduleID, difficulty, scorePercent, stars,
	)
	if err != nil {
		return fmt.Errorf("upsert completion: %w", err)
	}
	return nil
}

// AwardBadges inserts newly earned badges. Re-awarding an existing badge is
// a no-op, so earned badges are monotonically non-decreasing.
func (s *Store) AwardBadges(userID int64, badges []string) error {
	for _, badge := range badges {
		_, err := s.db.Exec(
			`INSERT INTO earned_badges (user_id, badge) VALUES ($1, $2)
			 ON CONFLICT (user_id, badge) DO NOTHING`,
			userID, badge,
		)
		if err != nil {
			return fmt.Errorf("award badge %s: %w", badge, err)
		}
	}
	return nil
}

// ── Class Aggregates ────────────────────────────────────

func (s *Store) GetClassStats(className string) (*models.ClassStats, error) {
	var cs models.ClassStats
	err := s.db.QueryRow(
		`SELECT class_name, preparedness_score, module_completion, drill_participation
		 FROM class_stats WHERE class_name = $1`,
		className,
	).Scan(&cs.ClassName, &cs.PreparednessScore, &cs.ModuleCompletion, &cs.DrillParticipation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get class stats: %w", err)
	}
	return &cs, nil
}

func (s *Store) UpdateClassStats(cs *models.ClassStats) error {
	_, err := s.db.Exec(
		`UPDATE class_stats SET
		    preparedness_score = $2, module_completion = $3, drill_participation = $4,
		    updated_at = NOW()
		 WHERE class_name = $1`,
		cs.ClassName, cs.PreparednessScore, cs.ModuleCompletion, cs.DrillParticipation,
	)
	if err != nil {
		return fmt.Errorf("update class stats: %w", err)
	}
	return nil
}

func (s *Store) ListClassStats() ([]models.ClassStats, error) {
	rows, err := s.db.Query(
		`SELECT class_name, preparedness_score, module_completion, drill_participation
		 FROM class_stats ORDER BY class_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list class stats: %w", err)
	}
	defer rows.Close()

	var classes []models.ClassStats
	for rows.Next() {
		var cs models.ClassStats
		if err := rows.Scan(&cs.ClassName, &cs.PreparednessScore, &cs.ModuleCompletion, &cs.DrillParticipation); err != nil {
			return nil, fmt.Errorf("scan class stats: %w", err)
		}
		classes = append(classes, cs)
	}
	return classes, rows.Err()
}
