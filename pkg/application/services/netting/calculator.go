package netting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/application/services/shared"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// Config holds netting tunables
type Config struct {
	// RequiredDateOffsetDays is added to the from date when a requirement has no explicit need date
	RequiredDateOffsetDays int
	Defaults               shared.Defaults
}

// DefaultConfig returns the default netting configuration
func DefaultConfig() Config {
	return Config{
		RequiredDateOffsetDays: 14,
		Defaults:               shared.DefaultValues(),
	}
}

// Calculator nets gross requirements against available supply and safety stock
type Calculator struct {
	config  Config
	supply  repositories.SupplyRepository
	traceID repositories.TraceIDGenerator
}

// NewCalculator creates a net requirement calculator
func NewCalculator(config Config, supply repositories.SupplyRepository, traceID repositories.TraceIDGenerator) *Calculator {
	return &Calculator{
		config:  config,
		supply:  supply,
		traceID: traceID,
	}
}

// grossRequirement is the per-material aggregate of requirement nodes
type grossRequirement struct {
	material entities.MaterialCode
	quantity decimal.Decimal
	level    int
	needDate time.Time
}

// aggregate sums requirement quantities per material in first-seen order,
// keeping the minimum level and the earliest explicit need date.
func aggregate(requirements []entities.RequirementNode) []grossRequirement {
	index := make(map[entities.MaterialCode]int)
	var gross []grossRequirement

	for _, req := range requirements {
		i, ok := index[req.Material]
		if !ok {
			index[req.Material] = len(gross)
			gross = append(gross, grossRequirement{
				material: req.Material,
				quantity: req.Quantity,
				level:    req.Level,
				needDate: req.NeedDate,
			})
			continue
		}

		g := &gross[i]
		g.quantity = g.quantity.Add(req.Quantity)
		if req.Level < g.level {
			g.level = req.Level
		}
		if !req.NeedDate.IsZero() && (g.needDate.IsZero() || req.NeedDate.Before(g.needDate)) {
			g.needDate = req.NeedDate
		}
	}
	return gross
}

// Net computes net requirements as of fromDate.
// A material is emitted only when gross - available - safety stock is strictly positive.
func (c *Calculator) Net(ctx context.Context, requirements []entities.RequirementNode, fromDate time.Time) ([]entities.NetRequirement, error) {
	var result []entities.NetRequirement

	for _, gross := range aggregate(requirements) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		available, err := c.available(ctx, gross.material, fromDate)
		if err != nil {
			return nil, err
		}

		safety, err := c.supply.GetSafetyStock(ctx, gross.material)
		safety, err = shared.QuantityOrDefault(safety, err, c.config.Defaults.SafetyStock)
		if err != nil {
			return nil, fmt.Errorf("failed to get safety stock for %s: %w", gross.material, err)
		}

		net := gross.quantity.Sub(available).Sub(safety)
		if !net.IsPositive() {
			continue
		}

		leadTime, err := c.supply.GetLeadTime(ctx, gross.material)
		leadTime, err = shared.DaysOrDefault(leadTime, err, c.config.Defaults.LeadTimeDays)
		if err != nil {
			return nil, fmt.Errorf("failed to get lead time for %s: %w", gross.material, err)
		}

		requiredDate := gross.needDate
		if requiredDate.IsZero() {
			requiredDate = fromDate.AddDate(0, 0, c.config.RequiredDateOffsetDays)
		}

		result = append(result, entities.NetRequirement{
			Material:         gross.material,
			GrossRequirement: gross.quantity,
			AvailableQty:     available,
			SafetyStock:      safety,
			NetRequirement:   net,
			RequiredDate:     requiredDate,
			LeadTimeDays:     leadTime,
			Level:            gross.level,
			TraceID:          c.traceID.GenerateTraceID(repositories.TraceKindNet, string(gross.material)),
		})
	}

	return result, nil
}

// available returns on-hand + in-transit - allocated as of date
func (c *Calculator) available(ctx context.Context, material entities.MaterialCode, date time.Time) (decimal.Decimal, error) {
	onHand, err := c.supply.GetOnHand(ctx, material, date)
	if onHand, err = shared.QuantityOrDefault(onHand, err, decimal.Zero); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get on-hand for %s: %w", material, err)
	}
	inTransit, err := c.supply.GetInTransit(ctx, material, date)
	if inTransit, err = shared.QuantityOrDefault(inTransit, err, decimal.Zero); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get in-transit for %s: %w", material, err)
	}
	allocated, err := c.supply.GetAllocated(ctx, material, date)
	if allocated, err = shared.QuantityOrDefault(allocated, err, decimal.Zero); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get allocated for %s: %w", material, err)
	}
	return onHand.Add(inTransit).Sub(allocated), nil
}
