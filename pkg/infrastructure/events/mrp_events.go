package events

import (
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

const (
	RunCompletedEvent = "planning.run.completed"
	RunFailedEvent    = "planning.run.failed"

	ShortageIdentifiedEvent = "shortage.identified"
	SuggestionCreatedEvent  = "procurement.suggestion.created"

	ATPCalculatedEvent = "atp.calculated"
)

type RunCompleted struct {
	RunID            string   `json:"run_id"`
	RequirementCount int      `json:"requirement_count"`
	ShortageCount    int      `json:"shortage_count"`
	SuggestionCount  int      `json:"suggestion_count"`
	DurationMs       int64    `json:"duration_ms"`
	Warnings         []string `json:"warnings,omitempty"`
}

type RunFailed struct {
	RunID        string `json:"run_id"`
	ErrorMessage string `json:"error_message"`
	DurationMs   int64  `json:"duration_ms"`
}

type ShortageIdentified struct {
	RunID    string            `json:"run_id"`
	Shortage entities.Shortage `json:"shortage"`
}

type SuggestionCreated struct {
	RunID      string                         `json:"run_id"`
	Suggestion entities.ProcurementSuggestion `json:"suggestion"`
}

type ATPCalculated struct {
	Result entities.ATPResult `json:"result"`
}
