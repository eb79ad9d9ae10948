package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance is the on-hand stock of a material at a plant
type InventoryBalance struct {
	Material    MaterialCode    `json:"material_code"`
	Plant       string          `json:"plant_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReservedQty decimal.Decimal `json:"reserved_qty"`
}

// NewInventoryBalance creates a validated InventoryBalance
func NewInventoryBalance(material MaterialCode, plant string, quantity, reservedQty decimal.Decimal) (*InventoryBalance, error) {
	if string(material) == "" {
		return nil, fmt.Errorf("material code cannot be empty")
	}
	if plant == "" {
		return nil, fmt.Errorf("plant code cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	if reservedQty.IsNegative() {
		return nil, fmt.Errorf("reserved quantity cannot be negative, got %s", reservedQty)
	}

	return &InventoryBalance{
		Material:    material,
		Plant:       plant,
		Quantity:    quantity,
		ReservedQty: reservedQty,
	}, nil
}

// Available returns on-hand minus reserved
func (b InventoryBalance) Available() decimal.Decimal {
	return b.Quantity.Sub(b.ReservedQty)
}

// SupplyEntryKind distinguishes the dated supply/demand records kept per plant
type SupplyEntryKind int

const (
	InTransit SupplyEntryKind = iota
	SalesAllocation
	MRPReservation
)

// String method for SupplyEntryKind enum
func (k SupplyEntryKind) String() string {
	switch k {
	case InTransit:
		return "InTransit"
	case SalesAllocation:
		return "SalesAllocation"
	case MRPReservation:
		return "MRPReservation"
	default:
		return "Unknown"
	}
}

// SupplyEntry is a dated quantity: an in-transit arrival, a sales allocation or an MRP reservation
type SupplyEntry struct {
	Kind     SupplyEntryKind `json:"kind"`
	Material MaterialCode    `json:"material_code"`
	Plant    string          `json:"plant_code"`
	Quantity decimal.Decimal `json:"quantity"`
	Date     time.Time       `json:"date"`
	Ref      string          `json:"ref,omitempty"`
}

// NewSupplyEntry creates a validated SupplyEntry
func NewSupplyEntry(kind SupplyEntryKind, material MaterialCode, plant string, quantity decimal.Decimal, date time.Time) (*SupplyEntry, error) {
	if string(material) == "" {
		return nil, fmt.Errorf("material code cannot be empty")
	}
	if plant == "" {
		return nil, fmt.Errorf("plant code cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("date cannot be empty")
	}

	return &SupplyEntry{
		Kind:     kind,
		Material: material,
		Plant:    plant,
		Quantity: quantity,
		Date:     date,
	}, nil
}

// CapacitySlot is the available capacity of a workstation on a day
type CapacitySlot struct {
	Plant       string          `json:"plant_code"`
	Workstation string          `json:"workstation_code"`
	Date        time.Time       `json:"date"`
	Available   decimal.Decimal `json:"available_capacity"`
}

// PlanResults is the payload handed to the result store after a successful run
type PlanResults struct {
	RunID           string                  `json:"run_id"`
	NetRequirements []NetRequirement        `json:"net_requirements"`
	Kit             KitCheckResult          `json:"kit"`
	Suggestions     []ProcurementSuggestion `json:"suggestions"`
}
