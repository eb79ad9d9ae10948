package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/application/services/shared"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// Result is the outcome of a suggestion pass
type Result struct {
	Suggestions []entities.ProcurementSuggestion
	// Warnings lists shortages that could not be sourced
	Warnings []string
}

// Generator turns shortages into purchase suggestions
type Generator struct {
	defaults shared.Defaults
	supply   repositories.SupplyRepository
	traceID  repositories.TraceIDGenerator
}

// NewGenerator creates a procurement suggestion generator
func NewGenerator(defaults shared.Defaults, supply repositories.SupplyRepository, traceID repositories.TraceIDGenerator) *Generator {
	return &Generator{
		defaults: defaults,
		supply:   supply,
		traceID:  traceID,
	}
}

// Suggest proposes one purchase per shortage from the best-ranked active supplier.
// Shortages without an active supplier are skipped and reported as warnings.
// today anchors the suggested date of shortages that carry no required date.
func (g *Generator) Suggest(ctx context.Context, shortages []entities.Shortage, today time.Time) (Result, error) {
	result := Result{Suggestions: []entities.ProcurementSuggestion{}}

	for _, shortage := range shortages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		offers, err := g.supply.FindActiveSuppliers(ctx, shortage.Material)
		if err != nil {
			return Result{}, fmt.Errorf("failed to find suppliers for %s: %w", shortage.Material, err)
		}

		ranked := shared.RankSuppliers(offers, shortage.ShortageQty, g.defaults.LeadTimeDays)
		if len(ranked) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no active supplier found for %s, shortage %s left unsourced", shortage.Material, shortage.ShortageQty))
			continue
		}

		suggestion, err := g.suggest(ctx, shortage, ranked, today)
		if err != nil {
			return Result{}, err
		}
		result.Suggestions = append(result.Suggestions, suggestion)
	}

	return result, nil
}

func (g *Generator) suggest(
	ctx context.Context,
	shortage entities.Shortage,
	ranked []*entities.SupplierOffer,
	today time.Time,
) (entities.ProcurementSuggestion, error) {
	best := ranked[0]

	moq := best.MOQ
	if !moq.IsPositive() {
		v, err := g.supply.GetMOQ(ctx, shortage.Material)
		if moq, err = shared.QuantityOrDefault(v, err, g.defaults.MOQ); err != nil {
			return entities.ProcurementSuggestion{}, fmt.Errorf("failed to get moq for %s: %w", shortage.Material, err)
		}
	}

	packSize := best.PackSize
	if !packSize.IsPositive() {
		v, err := g.supply.GetPackSize(ctx, shortage.Material)
		if packSize, err = shared.QuantityOrDefault(v, err, g.defaults.PackSize); err != nil {
			return entities.ProcurementSuggestion{}, fmt.Errorf("failed to get pack size for %s: %w", shortage.Material, err)
		}
	}

	leadTime := best.LeadTimeDays
	if leadTime <= 0 {
		v, err := g.supply.GetLeadTime(ctx, shortage.Material)
		if leadTime, err = shared.DaysOrDefault(v, err, g.defaults.LeadTimeDays); err != nil {
			return entities.ProcurementSuggestion{}, fmt.Errorf("failed to get lead time for %s: %w", shortage.Material, err)
		}
	}

	quantity := OrderQuantity(shortage.ShortageQty, packSize, moq)

	var suggestedDate time.Time
	if shortage.RequiredDate.IsZero() {
		suggestedDate = today.AddDate(0, 0, leadTime)
	} else {
		suggestedDate = shortage.RequiredDate.AddDate(0, 0, -leadTime)
	}

	alternatives := make([]entities.SupplierOffer, 0, len(ranked)-1)
	for _, offer := range ranked[1:] {
		alternatives = append(alternatives, *offer)
	}

	return entities.ProcurementSuggestion{
		Material:      shortage.Material,
		SuggestedQty:  quantity,
		SuggestedDate: suggestedDate,
		SupplierCode:  best.SupplierCode,
		SupplierName:  best.SupplierName,
		UnitPrice:     best.Price,
		EstimatedCost: quantity.Mul(best.Price),
		Urgency:       shortage.Urgency,
		Reason: fmt.Sprintf("shortage of %s (fill rate %.1f%%), %s urgency",
			shortage.ShortageQty, shortage.FillRate*100, shortage.Urgency),
		TraceID:      g.traceID.GenerateTraceID(repositories.TraceKindSuggestion, string(shortage.Material)),
		Alternatives: alternatives,
	}, nil
}

// OrderQuantity rounds qty up to a multiple of packSize (when packSize > 1)
// and raises it to at least moq, keeping it a pack multiple.
func OrderQuantity(qty, packSize, moq decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	roundUp := func(v decimal.Decimal) decimal.Decimal {
		if packSize.GreaterThan(one) {
			return v.Div(packSize).Ceil().Mul(packSize)
		}
		return v
	}

	result := roundUp(qty)
	if result.LessThan(moq) {
		result = roundUp(moq)
	}
	return result
}
