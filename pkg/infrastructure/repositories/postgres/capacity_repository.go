package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// CapacityRepository reads workstation capacity from capacity_slots
type CapacityRepository struct {
	db DB
}

// NewCapacityRepository creates a capacity repository over db
func NewCapacityRepository(db DB) *CapacityRepository {
	return &CapacityRepository{db: db}
}

var _ repositories.CapacityRepository = (*CapacityRepository)(nil)

// AvailableCapacity returns ErrDataUnavailable when no slot is stored for the day
func (r *CapacityRepository) AvailableCapacity(ctx context.Context, plant, workstation string, date time.Time) (decimal.Decimal, error) {
	query, args := capacityQuery(plant, workstation, date)

	var available decimal.Decimal
	if err := r.db.GetContext(ctx, &available, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, repositories.ErrDataUnavailable
		}
		return decimal.Zero, fmt.Errorf("failed to query capacity for %s/%s: %w", plant, workstation, err)
	}
	return available, nil
}
