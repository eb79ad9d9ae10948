package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// UrgencyLevel classifies how badly a material is short
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "CRITICAL"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyMedium   UrgencyLevel = "MEDIUM"
)

const (
	criticalFillRate = 0.3
	highFillRate     = 0.6
)

// ClassifyUrgency maps a fill rate onto an urgency level
func ClassifyUrgency(fillRate float64) UrgencyLevel {
	switch {
	case fillRate < criticalFillRate:
		return UrgencyCritical
	case fillRate < highFillRate:
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// FillRate returns available/required clamped to [0, 1]; 1 when nothing is required
func FillRate(required, available decimal.Decimal) float64 {
	if !required.IsPositive() {
		return 1.0
	}
	ratio, _ := available.Div(required).Float64()
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1.0
	}
	return ratio
}

// KitItem is the availability view of one material in a kit check
type KitItem struct {
	Material     MaterialCode    `json:"material_code"`
	RequiredQty  decimal.Decimal `json:"required_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	FillRate     float64         `json:"fill_rate"`
}

// Shortage represents a material whose available quantity does not cover its requirement
type Shortage struct {
	Material     MaterialCode    `json:"material_code"`
	RequiredQty  decimal.Decimal `json:"required_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	ShortageQty  decimal.Decimal `json:"shortage_qty"`
	FillRate     float64         `json:"fill_rate"`
	Urgency      UrgencyLevel    `json:"urgency_level"`
	RequiredDate time.Time       `json:"required_date,omitempty"`
	TraceID      string          `json:"trace_id"`
}

// KitCheckResult aggregates the kit items and shortages of a kit check
type KitCheckResult struct {
	CheckDate       time.Time  `json:"check_date"`
	Items           []KitItem  `json:"kit_items"`
	Shortages       []Shortage `json:"shortages"`
	OverallFillRate float64    `json:"overall_fill_rate"` // percentage
}

// OverallFillRate returns the mean item fill rate as a percentage, 100 for an empty kit
func OverallFillRate(items []KitItem) float64 {
	if len(items) == 0 {
		return 100.0
	}
	var total float64
	for _, item := range items {
		total += item.FillRate * 100
	}
	return total / float64(len(items))
}
