package dto

import (
	"time"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// RunStatus is the terminal state of a planning run
type RunStatus string

const (
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
)

// PlanningRequest is the input of a planning run
type PlanningRequest struct {
	Demands  []entities.RootDemand `json:"demands"`
	FromDate time.Time             `json:"from_date"`
	// MaxDepth overrides the configured explosion depth when set; 0 plans the roots only
	MaxDepth *int `json:"max_depth,omitempty"`
}

// PlanReport contains the complete output of the planning pipeline
type PlanReport struct {
	Requirements    []entities.RequirementNode       `json:"requirements"`
	NetRequirements []entities.NetRequirement        `json:"net_requirements"`
	Kit             entities.KitCheckResult          `json:"kit"`
	Suggestions     []entities.ProcurementSuggestion `json:"suggestions"`
	Warnings        []string                         `json:"warnings,omitempty"`
}

// PlanningRunResult summarizes a planning run
type PlanningRunResult struct {
	RunID            string    `json:"run_id"`
	Status           RunStatus `json:"status"`
	RequirementCount int       `json:"requirement_count"`
	ShortageCount    int       `json:"shortage_count"`
	SuggestionCount  int       `json:"suggestion_count"`
	DurationMs       int64     `json:"duration_ms"`
	Warnings         []string  `json:"warnings,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	// Report is nil for failed runs
	Report *PlanReport `json:"report,omitempty"`
}

// Succeeded reports whether the run completed
func (r PlanningRunResult) Succeeded() bool {
	return r.Status == StatusCompleted
}
