package repositories

import (
	"context"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// ResultRepository persists the outputs of a successful planning run
type ResultRepository interface {
	SaveResults(ctx context.Context, results entities.PlanResults) error
	// GetResults returns ErrNotFound for unknown or failed runs
	GetResults(ctx context.Context, runID string) (entities.PlanResults, error)
}

// TraceIDGenerator issues opaque identifiers for planning artefacts.
// kind is one of the TraceKind* constants; key is usually a material code.
type TraceIDGenerator interface {
	GenerateTraceID(kind, key string) string
}

// Trace kinds
const (
	TraceKindRun        = "RUN"
	TraceKindNode       = "BOM"
	TraceKindNet        = "NET"
	TraceKindKit        = "KIT"
	TraceKindSuggestion = "PROC"
	TraceKindATP        = "ATP"
)
