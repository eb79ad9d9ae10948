package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaterialCode represents a unique material identifier
type MaterialCode string

// MaterialConstraint holds the per-material planning constraints (MOQ, pack size, lead time, safety stock)
type MaterialConstraint struct {
	Material          MaterialCode    `json:"material_code"`
	MOQ               decimal.Decimal `json:"moq"`
	PackSize          decimal.Decimal `json:"pack_size"`
	LeadTimeDays      int             `json:"lead_time_days"`
	SafetyStock       decimal.Decimal `json:"safety_stock"`
	PreferredSupplier string          `json:"preferred_supplier,omitempty"`
}

// NewMaterialConstraint creates a validated MaterialConstraint
func NewMaterialConstraint(
	material MaterialCode,
	moq, packSize decimal.Decimal,
	leadTimeDays int,
	safetyStock decimal.Decimal,
) (*MaterialConstraint, error) {
	if string(material) == "" {
		return nil, fmt.Errorf("material code cannot be empty")
	}
	if moq.IsNegative() {
		return nil, fmt.Errorf("moq cannot be negative, got %s", moq)
	}
	if packSize.IsNegative() {
		return nil, fmt.Errorf("pack size cannot be negative, got %s", packSize)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}
	if safetyStock.IsNegative() {
		return nil, fmt.Errorf("safety stock cannot be negative, got %s", safetyStock)
	}

	return &MaterialConstraint{
		Material:     material,
		MOQ:          moq,
		PackSize:     packSize,
		LeadTimeDays: leadTimeDays,
		SafetyStock:  safetyStock,
	}, nil
}

// RootDemand is a top-level requirement (MPS line) fed into a planning run
type RootDemand struct {
	Material MaterialCode    `json:"material_code"`
	Quantity decimal.Decimal `json:"quantity"`
	DueDate  time.Time       `json:"due_date,omitempty"` // zero = no explicit due date
	Source   string          `json:"source,omitempty"`
}

// NewRootDemand creates a validated RootDemand
func NewRootDemand(material MaterialCode, quantity decimal.Decimal, dueDate time.Time) (*RootDemand, error) {
	if string(material) == "" {
		return nil, fmt.Errorf("material code cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}

	return &RootDemand{
		Material: material,
		Quantity: quantity,
		DueDate:  dueDate,
	}, nil
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
