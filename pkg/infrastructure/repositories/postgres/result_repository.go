package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

const uniqueViolation = pq.ErrorCode("23505")

// ResultRepository stores planning results as JSONB documents keyed by run id
type ResultRepository struct {
	db  DB
	now func() time.Time
}

// NewResultRepository creates a result repository over db
func NewResultRepository(db DB) *ResultRepository {
	return &ResultRepository{db: db, now: time.Now}
}

var _ repositories.ResultRepository = (*ResultRepository)(nil)

// SaveResults stores the results of a run; saving the same run twice is rejected
func (r *ResultRepository) SaveResults(ctx context.Context, results entities.PlanResults) error {
	if results.RunID == "" {
		return fmt.Errorf("run id cannot be empty")
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results for run %s: %w", results.RunID, err)
	}

	query, args := insertResultsQuery(results.RunID, payload, r.now().UTC())
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("results for run %s already saved", results.RunID)
		}
		return fmt.Errorf("failed to save results for run %s: %w", results.RunID, err)
	}
	return nil
}

// GetResults returns the saved results of a run
func (r *ResultRepository) GetResults(ctx context.Context, runID string) (entities.PlanResults, error) {
	query, args := selectResultsQuery(runID)

	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.PlanResults{}, fmt.Errorf("run %s: %w", runID, repositories.ErrNotFound)
		}
		return entities.PlanResults{}, fmt.Errorf("failed to load results for run %s: %w", runID, err)
	}

	var results entities.PlanResults
	if err := json.Unmarshal(payload, &results); err != nil {
		return entities.PlanResults{}, fmt.Errorf("failed to decode results for run %s: %w", runID, err)
	}
	return results, nil
}
