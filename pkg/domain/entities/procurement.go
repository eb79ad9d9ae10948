package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SupplierOffer describes an active supplier able to source a material
type SupplierOffer struct {
	Material           MaterialCode    `json:"material_code"`
	SupplierCode       string          `json:"supplier_code"`
	SupplierName       string          `json:"supplier_name"`
	Price              decimal.Decimal `json:"price"`
	LeadTimeDays       int             `json:"lead_time_days"`
	MOQ                decimal.Decimal `json:"moq"`       // zero = no minimum
	PackSize           decimal.Decimal `json:"pack_size"` // zero = use material constraint
	OnTimeDeliveryRate float64         `json:"otd_rate"`
	Active             bool            `json:"active"`
}

// NewSupplierOffer creates a validated SupplierOffer
func NewSupplierOffer(
	material MaterialCode,
	supplierCode, supplierName string,
	price decimal.Decimal,
	leadTimeDays int,
	moq decimal.Decimal,
	onTimeDeliveryRate float64,
) (*SupplierOffer, error) {
	if string(material) == "" {
		return nil, fmt.Errorf("material code cannot be empty")
	}
	if supplierCode == "" {
		return nil, fmt.Errorf("supplier code cannot be empty")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative, got %s", price)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}
	if moq.IsNegative() {
		return nil, fmt.Errorf("moq cannot be negative, got %s", moq)
	}
	if onTimeDeliveryRate < 0 || onTimeDeliveryRate > 1 {
		return nil, fmt.Errorf("on-time delivery rate must be within [0, 1], got %v", onTimeDeliveryRate)
	}

	return &SupplierOffer{
		Material:           material,
		SupplierCode:       supplierCode,
		SupplierName:       supplierName,
		Price:              price,
		LeadTimeDays:       leadTimeDays,
		MOQ:                moq,
		OnTimeDeliveryRate: onTimeDeliveryRate,
		Active:             true,
	}, nil
}

// ProcurementSuggestion is a proposed purchase closing a shortage
type ProcurementSuggestion struct {
	Material      MaterialCode    `json:"material_code"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	SuggestedDate time.Time       `json:"suggested_date"`
	SupplierCode  string          `json:"supplier_code"`
	SupplierName  string          `json:"supplier_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Urgency       UrgencyLevel    `json:"urgency_level"`
	Reason        string          `json:"reason"`
	TraceID       string          `json:"trace_id"`
	Alternatives  []SupplierOffer `json:"alternative_suppliers,omitempty"`
}
