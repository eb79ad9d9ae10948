package kitting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/application/services/shared"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// Checker evaluates whether current stock covers a set of net requirements
type Checker struct {
	supply  repositories.SupplyRepository
	traceID repositories.TraceIDGenerator
}

// NewChecker creates a kit availability checker
func NewChecker(supply repositories.SupplyRepository, traceID repositories.TraceIDGenerator) *Checker {
	return &Checker{
		supply:  supply,
		traceID: traceID,
	}
}

// CheckKit re-queries current availability for every net requirement and
// reports one kit item per material plus a shortage where available < required.
func (c *Checker) CheckKit(ctx context.Context, requirements []entities.NetRequirement, checkDate time.Time) (entities.KitCheckResult, error) {
	result := entities.KitCheckResult{
		CheckDate: checkDate,
		Items:     make([]entities.KitItem, 0, len(requirements)),
		Shortages: []entities.Shortage{},
	}

	for _, req := range requirements {
		if err := ctx.Err(); err != nil {
			return entities.KitCheckResult{}, err
		}

		available, err := c.supply.GetAvailable(ctx, req.Material)
		available, err = shared.QuantityOrDefault(available, err, decimal.Zero)
		if err != nil {
			return entities.KitCheckResult{}, fmt.Errorf("failed to get available quantity for %s: %w", req.Material, err)
		}

		required := req.NetRequirement
		fillRate := entities.FillRate(required, available)

		result.Items = append(result.Items, entities.KitItem{
			Material:     req.Material,
			RequiredQty:  required,
			AvailableQty: available,
			FillRate:     fillRate,
		})

		if available.LessThan(required) {
			result.Shortages = append(result.Shortages, entities.Shortage{
				Material:     req.Material,
				RequiredQty:  required,
				AvailableQty: available,
				ShortageQty:  required.Sub(available),
				FillRate:     fillRate,
				Urgency:      entities.ClassifyUrgency(fillRate),
				RequiredDate: req.RequiredDate,
				TraceID:      c.traceID.GenerateTraceID(repositories.TraceKindKit, string(req.Material)),
			})
		}
	}

	result.OverallFillRate = entities.OverallFillRate(result.Items)
	return result, nil
}
