package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequirementNode is a scaled material requirement produced by BOM explosion
type RequirementNode struct {
	Material MaterialCode    `json:"material_code"`
	Quantity decimal.Decimal `json:"required_qty"`
	Level    int             `json:"level"`
	NeedDate time.Time       `json:"need_date,omitempty"` // zero = no explicit date
	TraceID  string          `json:"trace_id"`
}

// NetRequirement represents demand left over after netting against available supply and safety stock
type NetRequirement struct {
	Material         MaterialCode    `json:"material_code"`
	GrossRequirement decimal.Decimal `json:"gross_requirement"`
	AvailableQty     decimal.Decimal `json:"available_qty"`
	SafetyStock      decimal.Decimal `json:"safety_stock"`
	NetRequirement   decimal.Decimal `json:"net_requirement"`
	RequiredDate     time.Time       `json:"required_date"`
	LeadTimeDays     int             `json:"lead_time_days"`
	Level            int             `json:"level"`
	TraceID          string          `json:"trace_id"`
}
