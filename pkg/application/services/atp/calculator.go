package atp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/application/services/shared"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// Config holds ATP/CTP tunables
type Config struct {
	// HorizonDays bounds the forward search for a promise date
	HorizonDays int
	// DefaultCapacity is assumed when a workstation has no capacity record
	DefaultCapacity decimal.Decimal
}

// DefaultConfig returns the default ATP configuration
func DefaultConfig() Config {
	return Config{
		HorizonDays:     90,
		DefaultCapacity: decimal.NewFromInt(1000),
	}
}

// Calculator answers available-to-promise and capable-to-promise queries
type Calculator struct {
	config   Config
	supply   repositories.PlantSupplyRepository
	capacity repositories.CapacityRepository
	traceID  repositories.TraceIDGenerator
}

// NewCalculator creates an ATP/CTP calculator
func NewCalculator(
	config Config,
	supply repositories.PlantSupplyRepository,
	capacity repositories.CapacityRepository,
	traceID repositories.TraceIDGenerator,
) *Calculator {
	return &Calculator{
		config:   config,
		supply:   supply,
		capacity: capacity,
		traceID:  traceID,
	}
}

func validate(material entities.MaterialCode, plant string, qty decimal.Decimal, date time.Time) error {
	if string(material) == "" {
		return fmt.Errorf("material code cannot be empty")
	}
	if plant == "" {
		return fmt.Errorf("plant code cannot be empty")
	}
	if !qty.IsPositive() {
		return fmt.Errorf("requested quantity must be positive, got %s", qty)
	}
	if date.IsZero() {
		return fmt.Errorf("requested date cannot be empty")
	}
	return nil
}

// ComputeATP returns the promisable quantity at the requested date.
//
// ATP = on-hand available + in-transit before the date - allocated through
// the date - reserved through the date. When ATP falls short, daily arrivals
// from the requested date onward are accumulated until they cover the
// shortfall; no promise date is set if the horizon is exhausted.
func (c *Calculator) ComputeATP(ctx context.Context, req entities.ATPRequest) (entities.ATPResult, error) {
	if err := validate(req.Material, req.Plant, req.RequestedQty, req.RequestedDate); err != nil {
		return entities.ATPResult{}, err
	}

	available, err := c.lookup(c.supply.OnHandAvailable(ctx, req.Material, req.Plant))
	if err != nil {
		return entities.ATPResult{}, fmt.Errorf("failed to get on-hand for %s at %s: %w", req.Material, req.Plant, err)
	}
	inTransit, err := c.lookup(c.supply.InTransitBefore(ctx, req.Material, req.Plant, req.RequestedDate))
	if err != nil {
		return entities.ATPResult{}, fmt.Errorf("failed to get in-transit for %s at %s: %w", req.Material, req.Plant, err)
	}
	allocated, err := c.lookup(c.supply.AllocatedThrough(ctx, req.Material, req.Plant, req.RequestedDate))
	if err != nil {
		return entities.ATPResult{}, fmt.Errorf("failed to get allocated for %s at %s: %w", req.Material, req.Plant, err)
	}
	reserved, err := c.lookup(c.supply.ReservedThrough(ctx, req.Material, req.Plant, req.RequestedDate))
	if err != nil {
		return entities.ATPResult{}, fmt.Errorf("failed to get reserved for %s at %s: %w", req.Material, req.Plant, err)
	}

	atpQty := available.Add(inTransit).Sub(allocated).Sub(reserved)
	canFulfill := atpQty.GreaterThanOrEqual(req.RequestedQty)

	var promised *time.Time
	if canFulfill {
		d := req.RequestedDate
		promised = &d
	} else {
		promised, err = c.findPromiseDate(ctx, req, req.RequestedQty.Sub(atpQty))
		if err != nil {
			return entities.ATPResult{}, err
		}
	}

	return entities.ATPResult{
		Material:      req.Material,
		Plant:         req.Plant,
		RequestedDate: req.RequestedDate,
		RequestedQty:  req.RequestedQty,
		AvailableQty:  available,
		InTransitQty:  inTransit,
		AllocatedQty:  allocated,
		ReservedQty:   reserved,
		ATPQty:        atpQty,
		CanFulfill:    canFulfill,
		PromisedDate:  promised,
		TraceID:       c.traceID.GenerateTraceID(repositories.TraceKindATP, string(req.Material)),
		CalculatedAt:  time.Now().UTC(),
	}, nil
}

// findPromiseDate returns the first day within the horizon whose cumulative arrivals cover shortfall
func (c *Calculator) findPromiseDate(ctx context.Context, req entities.ATPRequest, shortfall decimal.Decimal) (*time.Time, error) {
	cumulative := decimal.Zero
	for day := 0; day <= c.config.HorizonDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := req.RequestedDate.AddDate(0, 0, day)
		arrivals, err := c.lookup(c.supply.ArrivalsOn(ctx, req.Material, req.Plant, date))
		if err != nil {
			return nil, fmt.Errorf("failed to get arrivals for %s on %s: %w", req.Material, date.Format("2006-01-02"), err)
		}

		cumulative = cumulative.Add(arrivals)
		if cumulative.GreaterThanOrEqual(shortfall) {
			return &date, nil
		}
	}
	return nil, nil
}

// ComputeBatchATP answers each request in order; the first failing request aborts the batch
func (c *Calculator) ComputeBatchATP(ctx context.Context, reqs []entities.ATPRequest) ([]entities.ATPResult, error) {
	results := make([]entities.ATPResult, 0, len(reqs))
	for i, req := range reqs {
		result, err := c.ComputeATP(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, req.Material, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// ComputeCTP extends ATP with a workstation capacity check.
// The constraint is MATERIAL when ATP fails, CAPACITY when capacity is
// below the requested quantity, otherwise NONE.
func (c *Calculator) ComputeCTP(ctx context.Context, req entities.CTPRequest) (entities.CTPResult, error) {
	if req.Workstation == "" {
		return entities.CTPResult{}, fmt.Errorf("workstation code cannot be empty")
	}

	atpResult, err := c.ComputeATP(ctx, entities.ATPRequest{
		Material:      req.Material,
		Plant:         req.Plant,
		RequestedQty:  req.RequestedQty,
		RequestedDate: req.RequestedDate,
	})
	if err != nil {
		return entities.CTPResult{}, err
	}

	capacity, err := c.capacity.AvailableCapacity(ctx, req.Plant, req.Workstation, req.RequestedDate)
	capacity, err = shared.QuantityOrDefault(capacity, err, c.config.DefaultCapacity)
	if err != nil {
		return entities.CTPResult{}, fmt.Errorf("failed to get capacity for %s at %s: %w", req.Workstation, req.Plant, err)
	}

	constraint := entities.ConstraintNone
	switch {
	case !atpResult.CanFulfill:
		constraint = entities.ConstraintMaterial
	case capacity.LessThan(req.RequestedQty):
		constraint = entities.ConstraintCapacity
	}

	return entities.CTPResult{
		Material:          req.Material,
		Plant:             req.Plant,
		Workstation:       req.Workstation,
		RequestedDate:     req.RequestedDate,
		RequestedQty:      req.RequestedQty,
		ATP:               atpResult,
		AvailableCapacity: capacity,
		Constraint:        constraint,
		CanFulfill:        constraint == entities.ConstraintNone,
	}, nil
}

// lookup treats ErrDataUnavailable as zero
func (c *Calculator) lookup(v decimal.Decimal, err error) (decimal.Decimal, error) {
	return shared.QuantityOrDefault(v, err, decimal.Zero)
}
