package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

type supplierOfferRow struct {
	Material           string              `db:"material_code"`
	SupplierCode       string              `db:"supplier_code"`
	SupplierName       string              `db:"supplier_name"`
	UnitPrice          decimal.Decimal     `db:"unit_price"`
	LeadTimeDays       sql.NullInt64       `db:"lead_time_days"`
	MOQ                decimal.NullDecimal `db:"moq"`
	PackSize           decimal.NullDecimal `db:"pack_size"`
	OnTimeDeliveryRate float64             `db:"on_time_delivery_rate"`
	Active             bool                `db:"active"`
}

// toEntity maps a row to a SupplierOffer; NULL numbers map to zero, which the
// procurement generator treats as missing
func (r supplierOfferRow) toEntity() *entities.SupplierOffer {
	return &entities.SupplierOffer{
		Material:           entities.MaterialCode(r.Material),
		SupplierCode:       r.SupplierCode,
		SupplierName:       r.SupplierName,
		Price:              r.UnitPrice,
		LeadTimeDays:       int(r.LeadTimeDays.Int64),
		MOQ:                r.MOQ.Decimal,
		PackSize:           r.PackSize.Decimal,
		OnTimeDeliveryRate: r.OnTimeDeliveryRate,
		Active:             r.Active,
	}
}

// SupplyRepository reads balances, dated supply entries, constraints and
// supplier offers. It serves both the planning and the plant-scoped ATP lookups.
type SupplyRepository struct {
	db DB
}

// NewSupplyRepository creates a supply repository over db
func NewSupplyRepository(db DB) *SupplyRepository {
	return &SupplyRepository{db: db}
}

var _ repositories.SupplyRepository = (*SupplyRepository)(nil)
var _ repositories.PlantSupplyRepository = (*SupplyRepository)(nil)

// GetOnHand sums on-hand quantity across all plants
func (r *SupplyRepository) GetOnHand(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error) {
	query, args := balanceSumQuery("quantity", material, "")
	return r.sum(ctx, "on-hand", material, query, args)
}

// GetInTransit sums in-transit quantities arriving on or after asOf
func (r *SupplyRepository) GetInTransit(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error) {
	query, args := entrySumQuery(entities.InTransit, material, "", onOrAfter, asOf)
	return r.sum(ctx, "in-transit", material, query, args)
}

// GetAllocated sums all open sales allocations
func (r *SupplyRepository) GetAllocated(ctx context.Context, material entities.MaterialCode, asOf time.Time) (decimal.Decimal, error) {
	query, args := entrySumQuery(entities.SalesAllocation, material, "", anyDate, asOf)
	return r.sum(ctx, "allocated", material, query, args)
}

// GetAvailable returns on-hand minus reserved across all plants
func (r *SupplyRepository) GetAvailable(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	query, args := balanceSumQuery("quantity - reserved_qty", material, "")
	return r.sum(ctx, "available", material, query, args)
}

// GetSafetyStock returns the configured safety stock
func (r *SupplyRepository) GetSafetyStock(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	return r.constraintDecimal(ctx, "safety_stock", material)
}

// GetLeadTime returns the configured lead time in days
func (r *SupplyRepository) GetLeadTime(ctx context.Context, material entities.MaterialCode) (int, error) {
	query, args := constraintQuery("lead_time_days", material)

	var days sql.NullInt64
	if err := r.db.GetContext(ctx, &days, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repositories.ErrDataUnavailable
		}
		return 0, fmt.Errorf("failed to query lead time for %s: %w", material, err)
	}
	if !days.Valid {
		return 0, repositories.ErrDataUnavailable
	}
	return int(days.Int64), nil
}

// GetMOQ returns the configured minimum order quantity; zero counts as unset
func (r *SupplyRepository) GetMOQ(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	return r.positiveConstraint(ctx, "moq", material)
}

// GetPackSize returns the configured pack size; zero counts as unset
func (r *SupplyRepository) GetPackSize(ctx context.Context, material entities.MaterialCode) (decimal.Decimal, error) {
	return r.positiveConstraint(ctx, "pack_size", material)
}

// FindActiveSuppliers returns the active supplier offers for a material
func (r *SupplyRepository) FindActiveSuppliers(ctx context.Context, material entities.MaterialCode) ([]*entities.SupplierOffer, error) {
	query, args := activeSuppliersQuery(material)

	var rows []supplierOfferRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query suppliers for %s: %w", material, err)
	}

	offers := make([]*entities.SupplierOffer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, row.toEntity())
	}
	return offers, nil
}

// OnHandAvailable returns on-hand minus reserved at a plant
func (r *SupplyRepository) OnHandAvailable(ctx context.Context, material entities.MaterialCode, plant string) (decimal.Decimal, error) {
	query, args := balanceSumQuery("quantity - reserved_qty", material, plant)
	return r.sum(ctx, "plant available", material, query, args)
}

// InTransitBefore sums arrivals at the plant strictly before date
func (r *SupplyRepository) InTransitBefore(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	query, args := entrySumQuery(entities.InTransit, material, plant, before, date)
	return r.sum(ctx, "in-transit", material, query, args)
}

// ArrivalsOn sums arrivals at the plant on the calendar day of date
func (r *SupplyRepository) ArrivalsOn(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	query, args := entrySumQuery(entities.InTransit, material, plant, sameDay, date)
	return r.sum(ctx, "arrivals", material, query, args)
}

// AllocatedThrough sums sales allocations at the plant dated on or before date
func (r *SupplyRepository) AllocatedThrough(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	query, args := entrySumQuery(entities.SalesAllocation, material, plant, onOrBefore, date)
	return r.sum(ctx, "allocated", material, query, args)
}

// ReservedThrough sums MRP reservations at the plant dated on or before date
func (r *SupplyRepository) ReservedThrough(ctx context.Context, material entities.MaterialCode, plant string, date time.Time) (decimal.Decimal, error) {
	query, args := entrySumQuery(entities.MRPReservation, material, plant, onOrBefore, date)
	return r.sum(ctx, "reserved", material, query, args)
}

func (r *SupplyRepository) sum(
	ctx context.Context,
	what string,
	material entities.MaterialCode,
	query string,
	args []interface{},
) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return decimal.Zero, fmt.Errorf("failed to query %s for %s: %w", what, material, err)
	}
	return total, nil
}

func (r *SupplyRepository) constraintDecimal(ctx context.Context, column string, material entities.MaterialCode) (decimal.Decimal, error) {
	query, args := constraintQuery(column, material)

	var value decimal.NullDecimal
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, repositories.ErrDataUnavailable
		}
		return decimal.Zero, fmt.Errorf("failed to query %s for %s: %w", column, material, err)
	}
	if !value.Valid {
		return decimal.Zero, repositories.ErrDataUnavailable
	}
	return value.Decimal, nil
}

func (r *SupplyRepository) positiveConstraint(ctx context.Context, column string, material entities.MaterialCode) (decimal.Decimal, error) {
	value, err := r.constraintDecimal(ctx, column, material)
	if err != nil {
		return decimal.Zero, err
	}
	if !value.IsPositive() {
		return decimal.Zero, repositories.ErrDataUnavailable
	}
	return value, nil
}
