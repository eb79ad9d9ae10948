package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// CapacityRepository provides in-memory workstation capacity by day
type CapacityRepository struct {
	mu    sync.RWMutex
	slots map[string]decimal.Decimal
}

// NewCapacityRepository creates an empty capacity repository
func NewCapacityRepository() *CapacityRepository {
	return &CapacityRepository{slots: make(map[string]decimal.Decimal)}
}

// Verify interface compliance
var _ repositories.CapacityRepository = (*CapacityRepository)(nil)

// AddSlot stores the capacity of a workstation on a day
func (r *CapacityRepository) AddSlot(slot entities.CapacitySlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slotKey(slot.Plant, slot.Workstation, slot.Date)] = slot.Available
}

// AvailableCapacity returns ErrDataUnavailable when no slot is stored for the day
func (r *CapacityRepository) AvailableCapacity(ctx context.Context, plant, workstation string, date time.Time) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capacity, ok := r.slots[slotKey(plant, workstation, date)]
	if !ok {
		return decimal.Zero, repositories.ErrDataUnavailable
	}
	return capacity, nil
}

func slotKey(plant, workstation string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s", plant, workstation, date.Format("2006-01-02"))
}
