package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

func TestBOMLinesQuery(t *testing.T) {
	query, args := bomLinesQuery("F1_ENGINE")

	assert.Contains(t, query, "FROM bom_lines")
	assert.Contains(t, query, "parent_code = $1")
	assert.Contains(t, query, "active = $2")
	assert.Contains(t, query, "ORDER BY line_no")
	assert.Equal(t, []interface{}{"F1_ENGINE", true}, args)
}

func TestBalanceSumQuery(t *testing.T) {
	query, args := balanceSumQuery("quantity - reserved_qty", "INJECTOR_PLATE", "")
	assert.Contains(t, query, "COALESCE(SUM(quantity - reserved_qty), 0)")
	assert.NotContains(t, query, "plant_code")
	assert.Equal(t, []interface{}{"INJECTOR_PLATE"}, args)

	query, args = balanceSumQuery("quantity", "INJECTOR_PLATE", "MICHOUD")
	assert.Contains(t, query, "plant_code = $2")
	assert.Equal(t, []interface{}{"INJECTOR_PLATE", "MICHOUD"}, args)
}

func TestEntrySumQuery(t *testing.T) {
	date := time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kind     entities.SupplyEntryKind
		plant    string
		op       dateOp
		wantCond string
		wantArgs []interface{}
	}{
		{
			name:     "in-transit on or after",
			kind:     entities.InTransit,
			op:       onOrAfter,
			wantCond: "entry_date >= $3",
			wantArgs: []interface{}{"IN_TRANSIT", "F1_TURBOPUMP", "2025-03-04"},
		},
		{
			name:     "in-transit before at plant",
			kind:     entities.InTransit,
			plant:    "MICHOUD",
			op:       before,
			wantCond: "entry_date < $4",
			wantArgs: []interface{}{"IN_TRANSIT", "F1_TURBOPUMP", "MICHOUD", "2025-03-04"},
		},
		{
			name:     "arrivals on day",
			kind:     entities.InTransit,
			plant:    "MICHOUD",
			op:       sameDay,
			wantCond: "entry_date = $4",
			wantArgs: []interface{}{"IN_TRANSIT", "F1_TURBOPUMP", "MICHOUD", "2025-03-04"},
		},
		{
			name:     "reservations through",
			kind:     entities.MRPReservation,
			plant:    "MICHOUD",
			op:       onOrBefore,
			wantCond: "entry_date <= $4",
			wantArgs: []interface{}{"MRP_RESERVATION", "F1_TURBOPUMP", "MICHOUD", "2025-03-04"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := entrySumQuery(tt.kind, "F1_TURBOPUMP", tt.plant, tt.op, date)
			assert.Contains(t, query, "FROM supply_entries")
			assert.Contains(t, query, tt.wantCond)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEntrySumQuery_AnyDate(t *testing.T) {
	query, args := entrySumQuery(entities.SalesAllocation, "INJECTOR_PLATE", "", anyDate, time.Time{})

	assert.NotContains(t, query, "entry_date")
	assert.Equal(t, []interface{}{"SALES_ALLOCATION", "INJECTOR_PLATE"}, args)
}

func TestInsertResultsQuery(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	query, args := insertResultsQuery("RUN-000001", []byte(`{}`), createdAt)

	assert.Contains(t, query, "INSERT INTO planning_results")
	assert.Contains(t, query, "run_id, payload, created_at")
	assert.Contains(t, query, "$1, $2, $3")
	assert.Equal(t, []interface{}{"RUN-000001", []byte(`{}`), createdAt}, args)
}

func TestEntryKindValue(t *testing.T) {
	assert.Equal(t, "IN_TRANSIT", entryKindValue(entities.InTransit))
	assert.Equal(t, "SALES_ALLOCATION", entryKindValue(entities.SalesAllocation))
	assert.Equal(t, "MRP_RESERVATION", entryKindValue(entities.MRPReservation))
	assert.Equal(t, "UNKNOWN", entryKindValue(entities.SupplyEntryKind(99)))
}
