package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// DemandRequest is one root demand of a planning request
type DemandRequest struct {
	Material string          `json:"material_code" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	DueDate  string          `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Source   string          `json:"source,omitempty"`
}

// PlanRequest starts a planning run
type PlanRequest struct {
	Demands  []DemandRequest `json:"demands" validate:"required,min=1,dive"`
	FromDate string          `json:"from_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MaxDepth *int            `json:"max_depth,omitempty" validate:"omitempty,gte=0"`
}

// ExplodeRequest explodes a single material
type ExplodeRequest struct {
	Material string          `json:"material_code" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	MaxDepth *int            `json:"max_depth,omitempty" validate:"omitempty,gte=0"`
}

// KitRequirement is one net requirement to check
type KitRequirement struct {
	Material     string          `json:"material_code" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	RequiredDate string          `json:"required_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// KitCheckRequest checks availability of a set of requirements. An empty set is fully kitted.
type KitCheckRequest struct {
	Requirements []KitRequirement `json:"requirements" validate:"dive"`
}

// ATPQuery asks whether a quantity can be promised at a plant on a date
type ATPQuery struct {
	Material string          `json:"material_code" validate:"required"`
	Plant    string          `json:"plant_code" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
}

// BatchATPRequest groups several ATP queries
type BatchATPRequest struct {
	Requests []ATPQuery `json:"requests" validate:"required,min=1,max=500,dive"`
}

// CTPQuery extends an ATP query with a workstation
type CTPQuery struct {
	Material    string          `json:"material_code" validate:"required"`
	Plant       string          `json:"plant_code" validate:"required"`
	Workstation string          `json:"workstation_code" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
}

// bindAndValidate decodes the body into req and checks its tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	// tags already checked the layout
	t, _ := time.Parse(dateLayout, s)
	return t
}

func (r PlanRequest) toPlanningRequest() (dto.PlanningRequest, error) {
	demands := make([]entities.RootDemand, 0, len(r.Demands))
	for i, d := range r.Demands {
		demand, err := entities.NewRootDemand(entities.MaterialCode(d.Material), d.Quantity, parseDate(d.DueDate))
		if err != nil {
			return dto.PlanningRequest{}, fmt.Errorf("demands[%d]: %w", i, err)
		}
		demand.Source = d.Source
		demands = append(demands, *demand)
	}
	return dto.PlanningRequest{
		Demands:  demands,
		FromDate: parseDate(r.FromDate),
		MaxDepth: r.MaxDepth,
	}, nil
}

func (r KitCheckRequest) toNetRequirements() ([]entities.NetRequirement, error) {
	reqs := make([]entities.NetRequirement, 0, len(r.Requirements))
	for i, k := range r.Requirements {
		if k.Quantity.IsNegative() {
			return nil, fmt.Errorf("requirements[%d]: quantity cannot be negative, got %s", i, k.Quantity)
		}
		reqs = append(reqs, entities.NetRequirement{
			Material:       entities.MaterialCode(k.Material),
			NetRequirement: k.Quantity,
			RequiredDate:   parseDate(k.RequiredDate),
		})
	}
	return reqs, nil
}

func (q ATPQuery) toATPRequest() (entities.ATPRequest, error) {
	if !q.Quantity.IsPositive() {
		return entities.ATPRequest{}, fmt.Errorf("quantity must be positive, got %s", q.Quantity)
	}
	return entities.ATPRequest{
		Material:      entities.MaterialCode(q.Material),
		Plant:         q.Plant,
		RequestedQty:  q.Quantity,
		RequestedDate: parseDate(q.Date),
	}, nil
}

func (q CTPQuery) toCTPRequest() (entities.CTPRequest, error) {
	if !q.Quantity.IsPositive() {
		return entities.CTPRequest{}, fmt.Errorf("quantity must be positive, got %s", q.Quantity)
	}
	return entities.CTPRequest{
		Material:      entities.MaterialCode(q.Material),
		Plant:         q.Plant,
		Workstation:   q.Workstation,
		RequestedQty:  q.Quantity,
		RequestedDate: parseDate(q.Date),
	}, nil
}
