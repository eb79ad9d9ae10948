package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// ResultRepository keeps planning results in memory keyed by run id
type ResultRepository struct {
	mu      sync.RWMutex
	results map[string]entities.PlanResults
}

// NewResultRepository creates an empty result repository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[string]entities.PlanResults)}
}

// Verify interface compliance
var _ repositories.ResultRepository = (*ResultRepository)(nil)

// SaveResults stores the results of a run; saving the same run twice is rejected
func (r *ResultRepository) SaveResults(ctx context.Context, results entities.PlanResults) error {
	if results.RunID == "" {
		return fmt.Errorf("run id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[results.RunID]; exists {
		return fmt.Errorf("results for run %s already saved", results.RunID)
	}
	r.results[results.RunID] = results
	return nil
}

// GetResults returns the saved results of a run
func (r *ResultRepository) GetResults(ctx context.Context, runID string) (entities.PlanResults, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results, ok := r.results[runID]
	if !ok {
		return entities.PlanResults{}, fmt.Errorf("run %s: %w", runID, repositories.ErrNotFound)
	}
	return results, nil
}
