package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// SupplyRepository provides the supply and constraint data used by netting,
// kit checking and procurement.
//
// Constraint lookups (safety stock, lead time, MOQ, pack size) return
// ErrDataUnavailable when nothing is configured for the material; callers
// substitute their defaults.
type SupplyRepository interface {
	GetOnHand(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error)
	GetInTransit(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error)
	GetAllocated(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error)
	// GetAvailable returns current on-hand minus reserved
	GetAvailable(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error)

	GetSafetyStock(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error)
	GetLeadTime(ctx context.Context, material entities.MaterialCode) (int, error)
	GetMOQ(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error)
	GetPackSize(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error)

	FindActiveSuppliers(ctx context.Context, material entities.MaterialCode) ([]*entities.SupplierOffer, error)
}

// PlantSupplyRepository provides the plant-scoped lookups behind ATP
type PlantSupplyRepository interface {
	// OnHandAvailable is on-hand minus reserved at the plant
	OnHandAvailable(ctx context.Context, material entities.MaterialCode, plant string) (decimal.Decimal, error)
	// InTransitBefore sums in-transit quantities arriving strictly before date
	InTransitBefore(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error)
	// ArrivalsOn sums in-transit quantities arriving on the calendar day of date
	ArrivalsOn(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error)
	// AllocatedThrough sums sales allocations dated on or before date
	AllocatedThrough(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error)
	// ReservedThrough sums MRP reservations dated on or before date
	ReservedThrough(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error)
}

// CapacityRepository provides workstation capacity for CTP checks
type CapacityRepository interface {
	AvailableCapacity(ctx context.Context, plant, workstation string, date time.Time) (decimal.Decimal, error)
}
