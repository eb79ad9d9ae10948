package postgres

import (
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// dateOp selects how supply_entries.entry_date is compared to the lookup date
type dateOp int

const (
	onOrAfter dateOp = iota
	before
	sameDay
	onOrBefore
	anyDate
)

// entryKindValue is the supply_entries.kind value stored for each entry kind
func entryKindValue(kind entities.SupplyEntryKind) string {
	switch kind {
	case entities.InTransit:
		return "IN_TRANSIT"
	case entities.SalesAllocation:
		return "SALES_ALLOCATION"
	case entities.MRPReservation:
		return "MRP_RESERVATION"
	default:
		return "UNKNOWN"
	}
}

func bomLinesQuery(parent entities.MaterialCode) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("parent_code", "child_code", "usage_per_parent", "yield_rate", "active")
	sb.From("bom_lines")
	sb.Where(
		sb.Equal("parent_code", string(parent)),
		sb.Equal("active", true),
	)
	sb.OrderBy("line_no")
	return sb.Build()
}

// balanceSumQuery sums expr over inventory_balances; an empty plant sums across plants
func balanceSumQuery(expr string, material entities.MaterialCode, plant string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COALESCE(SUM(" + expr + "), 0)")
	sb.From("inventory_balances")
	where := []string{sb.Equal("material_code", string(material))}
	if plant != "" {
		where = append(where, sb.Equal("plant_code", plant))
	}
	sb.Where(where...)
	return sb.Build()
}

// entrySumQuery sums supply_entries quantities of one kind; an empty plant sums across plants
func entrySumQuery(
	kind entities.SupplyEntryKind,
	material entities.MaterialCode,
	plant string,
	op dateOp,
	date time.Time,
) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COALESCE(SUM(quantity), 0)")
	sb.From("supply_entries")
	where := []string{
		sb.Equal("kind", entryKindValue(kind)),
		sb.Equal("material_code", string(material)),
	}
	if plant != "" {
		where = append(where, sb.Equal("plant_code", plant))
	}

	day := date.Format(dateLayout)
	switch op {
	case onOrAfter:
		where = append(where, sb.GreaterEqualThan("entry_date", day))
	case before:
		where = append(where, sb.LessThan("entry_date", day))
	case sameDay:
		where = append(where, sb.Equal("entry_date", day))
	case onOrBefore:
		where = append(where, sb.LessEqualThan("entry_date", day))
	}
	sb.Where(where...)
	return sb.Build()
}

func constraintQuery(column string, material entities.MaterialCode) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(column)
	sb.From("material_constraints")
	sb.Where(sb.Equal("material_code", string(material)))
	return sb.Build()
}

func activeSuppliersQuery(material entities.MaterialCode) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("material_code", "supplier_code", "supplier_name", "unit_price", "lead_time_days",
		"moq", "pack_size", "on_time_delivery_rate", "active")
	sb.From("supplier_offers")
	sb.Where(
		sb.Equal("material_code", string(material)),
		sb.Equal("active", true),
	)
	sb.OrderBy("supplier_code")
	return sb.Build()
}

func capacityQuery(plant, workstation string, date time.Time) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("available_qty")
	sb.From("capacity_slots")
	sb.Where(
		sb.Equal("plant_code", plant),
		sb.Equal("workstation_code", workstation),
		sb.Equal("slot_date", date.Format(dateLayout)),
	)
	return sb.Build()
}

func insertResultsQuery(runID string, payload []byte, createdAt time.Time) (string, []interface{}) {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("planning_results")
	ib.Cols("run_id", "payload", "created_at")
	ib.Values(runID, payload, createdAt)
	return ib.Build()
}

func selectResultsQuery(runID string) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("payload")
	sb.From("planning_results")
	sb.Where(sb.Equal("run_id", runID))
	return sb.Build()
}
