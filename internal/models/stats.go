package models

// ClassStats is the administrator-facing rollup for one cohort. Each metric
// is an integer percentage bounded to [0, 100]; the aggregation engine only
// ever moves them upward.
type ClassStats struct {
	ClassName          string `json:"class_name"`
	PreparednessScore  int    `json:"preparedness_score"`
	ModuleCompletion   int    `json:"module_completion"`
	DrillParticipation int    `json:"drill_participation"`
}

type ClassStatsResponse struct {
	Classes []ClassStats `json:"classes"`
}
