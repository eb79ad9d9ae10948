package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// SupplyRepository provides in-memory supply, constraint and supplier data.
// It serves both the planning lookups and the plant-scoped ATP lookups.
type SupplyRepository struct {
	mu          sync.RWMutex
	balances    []entities.InventoryBalance
	entries     []entities.SupplyEntry
	constraints map[entities.MaterialCode]entities.MaterialConstraint
	suppliers   map[entities.MaterialCode][]entities.SupplierOffer
}

// NewSupplyRepository creates an empty in-memory supply repository
func NewSupplyRepository() *SupplyRepository {
	return &SupplyRepository{
		balances:    []entities.InventoryBalance{},
		entries:     []entities.SupplyEntry{},
		constraints: make(map[entities.MaterialCode]entities.MaterialConstraint),
		suppliers:   make(map[entities.MaterialCode][]entities.SupplierOffer),
	}
}

// Verify interface compliance
var _ repositories.SupplyRepository = (*SupplyRepository)(nil)
var _ repositories.PlantSupplyRepository = (*SupplyRepository)(nil)

// AddBalance adds an on-hand balance
func (r *SupplyRepository) AddBalance(balance entities.InventoryBalance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances = append(r.balances, balance)
}

// AddEntry adds an in-transit arrival, sales allocation or MRP reservation
func (r *SupplyRepository) AddEntry(entry entities.SupplyEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// SetConstraint stores the planning constraint of a material, replacing any previous one
func (r *SupplyRepository) SetConstraint(constraint entities.MaterialConstraint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constraints[constraint.Material] = constraint
}

// AddSupplier registers a supplier offer for its material
func (r *SupplyRepository) AddSupplier(offer entities.SupplierOffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[offer.Material] = append(r.suppliers[offer.Material], offer)
}

// GetOnHand sums on-hand quantity across all plants
func (r *SupplyRepository) GetOnHand(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, b := range r.balances {
		if b.Material == material {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

// GetInTransit sums in-transit quantities arriving on or after asOf
func (r *SupplyRepository) GetInTransit(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error) {
	day := entities.DateOnly(asOf)
	return r.sumEntries(material, "", entities.InTransit, func(d time.Time) bool {
		return !entities.DateOnly(d).Before(day)
	}), nil
}

// GetAllocated sums all open sales allocations
func (r *SupplyRepository) GetAllocated(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error) {
	return r.sumEntries(material, "", entities.SalesAllocation, func(time.Time) bool { return true }), nil
}

// GetAvailable returns on-hand minus reserved across all plants
func (r *SupplyRepository) GetAvailable(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, b := range r.balances {
		if b.Material == material {
			total = total.Add(b.Available())
		}
	}
	return total, nil
}

// GetSafetyStock returns the configured safety stock
func (r *SupplyRepository) GetSafetyStock(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	c, ok := r.constraint(material)
	if !ok {
		return decimal.Zero, repositories.ErrDataUnavailable
	}
	return c.SafetyStock, nil
}

// GetLeadTime returns the configured lead time in days
func (r *SupplyRepository) GetLeadTime(ctx context.Context, material entities.MaterialCode) (int, error) {
	c, ok := r.constraint(material)
	if !ok {
		return 0, repositories.ErrDataUnavailable
	}
	return c.LeadTimeDays, nil
}

// GetMOQ returns the configured minimum order quantity; zero counts as unset
func (r *SupplyRepository) GetMOQ(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	c, ok := r.constraint(material)
	if !ok || c.MOQ.IsZero() {
		return decimal.Zero, repositories.ErrDataUnavailable
	}
	return c.MOQ, nil
}

// GetPackSize returns the configured pack size; zero counts as unset
func (r *SupplyRepository) GetPackSize(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	c, ok := r.constraint(material)
	if !ok || c.PackSize.IsZero() {
		return decimal.Zero, repositories.ErrDataUnavailable
	}
	return c.PackSize, nil
}

// FindActiveSuppliers returns the active supplier offers for a material
func (r *SupplyRepository) FindActiveSuppliers(ctx context.Context, material entities.MaterialCode) ([]*entities.SupplierOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var offers []*entities.SupplierOffer
	for _, offer := range r.suppliers[material] {
		if !offer.Active {
			continue
		}
		o := offer
		offers = append(offers, &o)
	}
	return offers, nil
}

// OnHandAvailable returns on-hand minus reserved at a plant
func (r *SupplyRepository) OnHandAvailable(ctx context.Context, material entities.MaterialCode, plant string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, b := range r.balances {
		if b.Material == material && b.Plant == plant {
			total = total.Add(b.Available())
		}
	}
	return total, nil
}

// InTransitBefore sums arrivals at the plant strictly before date
func (r *SupplyRepository) InTransitBefore(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	day := entities.DateOnly(date)
	return r.sumEntries(material, plant, entities.InTransit, func(d time.Time) bool {
		return entities.DateOnly(d).Before(day)
	}), nil
}

// ArrivalsOn sums arrivals at the plant on the calendar day of date
func (r *SupplyRepository) ArrivalsOn(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	return r.sumEntries(material, plant, entities.InTransit, func(d time.Time) bool {
		return entities.SameDay(d, date)
	}), nil
}

// AllocatedThrough sums sales allocations at the plant dated on or before date
func (r *SupplyRepository) AllocatedThrough(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	return r.sumEntries(material, plant, entities.SalesAllocation, onOrBefore(date)), nil
}

// ReservedThrough sums MRP reservations at the plant dated on or before date
func (r *SupplyRepository) ReservedThrough(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	return r.sumEntries(material, plant, entities.MRPReservation, onOrBefore(date)), nil
}

func (r *SupplyRepository) constraint(material entities.MaterialCode) (entities.MaterialConstraint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constraints[material]
	return c, ok
}

// sumEntries totals entries of kind for material; an empty plant matches every plant
func (r *SupplyRepository) sumEntries(
	material entities.MaterialCode,
	plant string,
	kind entities.SupplyEntryKind,
	match func(time.Time) bool,
) decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, e := range r.entries {
		if e.Kind != kind || e.Material != material {
			continue
		}
		if plant != "" && e.Plant != plant {
			continue
		}
		if match(e.Date) {
			total = total.Add(e.Quantity)
		}
	}
	return total
}

func onOrBefore(date time.Time) func(time.Time) bool {
	day := entities.DateOnly(date)
	return func(d time.Time) bool {
		return !entities.DateOnly(d).After(day)
	}
}
