package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConstraintType names what blocks a capable-to-promise commitment
type ConstraintType string

const (
	ConstraintNone     ConstraintType = "NONE"
	ConstraintMaterial ConstraintType = "MATERIAL"
	ConstraintCapacity ConstraintType = "CAPACITY"
)

// ATPRequest asks whether a quantity of a material can be promised by a date
type ATPRequest struct {
	Material      MaterialCode    `json:"material_code"`
	Plant         string          `json:"plant_code"`
	RequestedQty  decimal.Decimal `json:"requested_qty"`
	RequestedDate time.Time       `json:"requested_date"`
}

// ATPResult is the answer to an ATPRequest
type ATPResult struct {
	Material      MaterialCode    `json:"material_code"`
	Plant         string          `json:"plant_code"`
	RequestedDate time.Time       `json:"requested_date"`
	RequestedQty  decimal.Decimal `json:"requested_qty"`
	AvailableQty  decimal.Decimal `json:"available_qty"`
	InTransitQty  decimal.Decimal `json:"in_transit_qty"`
	AllocatedQty  decimal.Decimal `json:"allocated_qty"`
	ReservedQty   decimal.Decimal `json:"reserved_qty"`
	ATPQty        decimal.Decimal `json:"atp_qty"`
	CanFulfill    bool            `json:"can_fulfill"`
	PromisedDate  *time.Time      `json:"promised_date"` // nil = cannot commit within horizon
	TraceID       string          `json:"trace_id"`
	CalculatedAt  time.Time       `json:"calculated_at"`
}

// CTPRequest extends an ATP request with the workstation whose capacity must be checked
type CTPRequest struct {
	Material      MaterialCode    `json:"material_code"`
	Plant         string          `json:"plant_code"`
	Workstation   string          `json:"workstation_code"`
	RequestedQty  decimal.Decimal `json:"requested_qty"`
	RequestedDate time.Time       `json:"requested_date"`
}

// CTPResult combines the material ATP answer with a capacity check
type CTPResult struct {
	Material          MaterialCode    `json:"material_code"`
	Plant             string          `json:"plant_code"`
	Workstation       string          `json:"workstation_code"`
	RequestedDate     time.Time       `json:"requested_date"`
	RequestedQty      decimal.Decimal `json:"requested_qty"`
	ATP               ATPResult       `json:"atp_result"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
	Constraint        ConstraintType  `json:"constraint_type"`
	CanFulfill        bool            `json:"can_fulfill"`
}
