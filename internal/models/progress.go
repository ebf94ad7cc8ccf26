package models

// EmergencyContact is one entry in a student's ordered contact list.
type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// StudentDetails holds the identity and contact fields of a profile.
// The password never leaves the backend; only its bcrypt hash is stored.
type StudentDetails struct {
	Name              string             `json:"name"`
	Age               int                `json:"age"`
	ClassName         string             `json:"class_name"`
	Section           string             `json:"section"`
	Email             string             `json:"email"`
	AvatarURL         string             `json:"avatar_url,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
}

// ClassLabel is the cohort key used for aggregate statistics,
// e.g. ClassName "CSE" + Section "A" → "CSE A".
func (d StudentDetails) ClassLabel() string {
	if d.Section == "" {
		return d.ClassName
	}
	return d.ClassName + " " + d.Section
}

// StudentProfile is the full progress record for one account. It is loaded,
// transformed by the pure progression engines, and saved back — the engines
// themselves never touch the store.
type StudentProfile struct {
	UserID                int64                         `json:"user_id"`
	Details               StudentDetails                `json:"details"`
	CompletedDifficulties map[string][]Difficulty       `json:"completed_difficulties"`
	ModuleScores          map[string]map[Difficulty]int `json:"module_scores"`
	ModuleStars           map[string]map[Difficulty]int `json:"module_stars"`
	EarnedBadges          []string                      `json:"earned_badges"`
	HasSeenTutorial       bool                          `json:"has_seen_tutorial"`
}

// HasCompleted reports whether the given difficulty tier of a module is in
// the completion set.
func (p *StudentProfile) HasCompleted(moduleID string, difficulty Difficulty) bool {
	for _, d := range p.CompletedDifficulties[moduleID] {
		if d == difficulty {
			return true
		}
	}
	return false
}

// TotalCompletions counts completed (module, difficulty) pairs across all
// modules.
func (p *StudentProfile) TotalCompletions() int {
	total := 0
	for _, diffs := range p.CompletedDifficulties {
		total += len(diffs)
	}
	return total
}

// HasBadge reports whether the badge has already been earned.
func (p *StudentProfile) HasBadge(id string) bool {
	for _, b := range p.EarnedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// CompletionEvent is the ephemeral signal produced by finishing one quiz
// attempt. Score is the raw correct-answer count out of the fixed quiz
// length, not a percentage.
type CompletionEvent struct {
	ModuleID   string
	Difficulty Difficulty
	Score      int
	Stars      int
}

// ── Request/Response Types ────────────────────────────────

type CompleteQuizRequest struct {
	ModuleID   string     `json:"module_id"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	Stars      int        `json:"stars"`
}

type CompleteQuizResponse struct {
	ModuleID        string     `json:"module_id"`
	Difficulty      Difficulty `json:"difficulty"`
	ScorePercent    int        `json:"score_percent"`
	Stars           int        `json:"stars"`
	IsNewCompletion bool       `json:"is_new_completion"`
	NewBadges       []string   `json:"new_badges"`
	EarnedBadges    []string   `json:"earned_badges"`
}

type ModuleProgress struct {
	ModuleID              string             `json:"module_id"`
	CompletedDifficulties []Difficulty       `json:"completed_difficulties"`
	Scores                map[Difficulty]int `json:"scores"`
	Stars                 map[Difficulty]int `json:"stars"`
	FullyCompleted        bool               `json:"fully_completed"`
}

type ProgressResponse struct {
	Profile         StudentProfile   `json:"profile"`
	Modules         []ModuleProgress `json:"modules"`
	DrillsCompleted int              `json:"drills_completed"`
	DrillsAvailable int              `json:"drills_available"`
	ProgressPercent int              `json:"progress_percent"`
}
