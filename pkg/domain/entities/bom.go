package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityScale is the number of decimal places exploded quantities are rounded to
const QuantityScale = 4

// BOMLine represents a single parent/child line in a Bill of Materials
type BOMLine struct {
	ParentCode     MaterialCode    `json:"parent_code"`
	ChildCode      MaterialCode    `json:"child_code"`
	UsagePerParent decimal.Decimal `json:"usage_per_parent"`
	YieldRate      decimal.Decimal `json:"yield_rate"` // zero = unset, treated as 1.0
	Active         bool            `json:"active"`
}

// NewBOMLine creates a validated BOMLine.
// Self-referencing lines are accepted: the explosion is depth-bounded.
func NewBOMLine(
	parentCode, childCode MaterialCode,
	usagePerParent, yieldRate decimal.Decimal,
	active bool,
) (*BOMLine, error) {
	if string(parentCode) == "" {
		return nil, fmt.Errorf("parent material code cannot be empty")
	}
	if string(childCode) == "" {
		return nil, fmt.Errorf("child material code cannot be empty")
	}
	if usagePerParent.IsNegative() {
		return nil, fmt.Errorf("usage per parent cannot be negative, got %s", usagePerParent)
	}
	if yieldRate.IsNegative() || yieldRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("yield rate must be within [0, 1] (0 = unset), got %s", yieldRate)
	}

	return &BOMLine{
		ParentCode:     parentCode,
		ChildCode:      childCode,
		UsagePerParent: usagePerParent,
		YieldRate:      yieldRate,
		Active:         active,
	}, nil
}

// EffectiveYield returns the yield rate, defaulting to 1.0 when unset
func (l BOMLine) EffectiveYield() decimal.Decimal {
	if l.YieldRate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return l.YieldRate
}

// ChildQuantity scales a parent quantity through this line, rounded half-up to QuantityScale places
func (l BOMLine) ChildQuantity(parentQty decimal.Decimal) decimal.Decimal {
	return parentQty.
		Mul(l.UsagePerParent).
		Mul(l.EffectiveYield()).
		Round(QuantityScale)
}
