package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// AllDifficulties lists every tier a module offers. A module is fully
// completed once all of them appear in the student's completion set.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

type ModuleStatus string

const (
	StatusActive           ModuleStatus = "Active"
	StatusInactive         ModuleStatus = "Inactive"
	StatusUnderMaintenance ModuleStatus = "Under Maintenance"
)

var ValidModuleStatuses = map[ModuleStatus]bool{
	StatusActive:           true,
	StatusInactive:         true,
	StatusUnderMaintenance: true,
}

// Region classifies where a student currently is, as resolved by the
// client-side geolocation collaborator. Location-based modules are only
// offered when the student's region matches the module's required region.
type Region string

const (
	RegionCoastal   Region = "coastal"
	RegionFaultLine Region = "fault-line"
)

type DisasterModule struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	IsLocationBased bool         `json:"is_location_based"`
	RequiredRegion  *Region      `json:"required_region,omitempty"`
	Status          ModuleStatus `json:"status"`
}

type ModuleListResponse struct {
	Modules []DisasterModule `json:"modules"`
}

type SetModuleStatusRequest struct {
	Status ModuleStatus `json:"status"`
}

// ── Safety Info ───────────────────────────────────────────

type SafetyInfoCard struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type SafetyInfoResponse struct {
	ModuleID string           `json:"module_id"`
	Cards    []SafetyInfoCard `json:"cards"`
	Source   string           `json:"source"` // "static" or "generated"
}

// ── Quiz Types ────────────────────────────────────────────

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestion struct {
	QuestionText string       `json:"question_text"`
	Options      []QuizOption `json:"options"`
	Explanation  string       `json:"explanation"`
}

type QuizResponse struct {
	ModuleID   string         `json:"module_id"`
	Difficulty Difficulty     `json:"difficulty"`
	Questions  []QuizQuestion `json:"questions"`
}
