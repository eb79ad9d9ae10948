package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

var (
	bomHeader        = []string{"parent_code", "child_code", "usage_per_parent", "yield_rate", "active"}
	inventoryHeader  = []string{"material_code", "plant_code", "quantity", "reserved_qty"}
	entryHeader      = []string{"material_code", "plant_code", "quantity", "date", "ref"}
	constraintHeader = []string{"material_code", "moq", "pack_size", "lead_time_days", "safety_stock"}
	supplierHeader   = []string{"material_code", "supplier_code", "supplier_name", "unit_price", "lead_time_days", "moq", "on_time_delivery_rate", "active"}
	capacityHeader   = []string{"plant_code", "workstation_code", "date", "available_capacity"}
	demandHeader     = []string{"material_code", "quantity", "due_date", "source"}
)

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadBOM loads BOM lines from a CSV file.
// A blank usage counts as one per parent, a blank yield as unset and a blank active flag as true.
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	records, err := readTable(filename, "BOM", bomHeader)
	if err != nil {
		return nil, err
	}

	var bomLines []*entities.BOMLine
	for i, record := range records {
		line, err := parseBOMLine(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		bomLines = append(bomLines, line)
	}
	return bomLines, nil
}

// LoadInventory loads on-hand balances from a CSV file
func (l *Loader) LoadInventory(filename string) ([]*entities.InventoryBalance, error) {
	records, err := readTable(filename, "inventory", inventoryHeader)
	if err != nil {
		return nil, err
	}

	var balances []*entities.InventoryBalance
	for i, record := range records {
		quantity, err := parseDecimal("quantity", record[2])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		reserved, err := parseOptionalDecimal("reserved_qty", record[3])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}

		balance, err := entities.NewInventoryBalance(entities.MaterialCode(record[0]), record[1], quantity, reserved)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

// LoadSupplyEntries loads dated in-transit arrivals, sales allocations or MRP reservations
func (l *Loader) LoadSupplyEntries(filename string, kind entities.SupplyEntryKind) ([]*entities.SupplyEntry, error) {
	label := kind.String()
	records, err := readTable(filename, label, entryHeader)
	if err != nil {
		return nil, err
	}

	var entries []*entities.SupplyEntry
	for i, record := range records {
		quantity, err := parseDecimal("quantity", record[2])
		if err != nil {
			return nil, fmt.Errorf("%s CSV row %d: %w", label, i+2, err)
		}
		date, err := parseDate("date", record[3])
		if err != nil {
			return nil, fmt.Errorf("%s CSV row %d: %w", label, i+2, err)
		}

		entry, err := entities.NewSupplyEntry(kind, entities.MaterialCode(record[0]), record[1], quantity, date)
		if err != nil {
			return nil, fmt.Errorf("%s CSV row %d: %w", label, i+2, err)
		}
		entry.Ref = record[4]
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadConstraints loads per-material planning constraints; blank values stay unset
func (l *Loader) LoadConstraints(filename string) ([]*entities.MaterialConstraint, error) {
	records, err := readTable(filename, "constraints", constraintHeader)
	if err != nil {
		return nil, err
	}

	var constraints []*entities.MaterialConstraint
	for i, record := range records {
		constraint, err := parseConstraint(record)
		if err != nil {
			return nil, fmt.Errorf("constraints CSV row %d: %w", i+2, err)
		}
		constraints = append(constraints, constraint)
	}
	return constraints, nil
}

// LoadSuppliers loads supplier offers from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]*entities.SupplierOffer, error) {
	records, err := readTable(filename, "suppliers", supplierHeader)
	if err != nil {
		return nil, err
	}

	var offers []*entities.SupplierOffer
	for i, record := range records {
		offer, err := parseSupplierOffer(record)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// LoadCapacity loads daily workstation capacity from a CSV file
func (l *Loader) LoadCapacity(filename string) ([]*entities.CapacitySlot, error) {
	records, err := readTable(filename, "capacity", capacityHeader)
	if err != nil {
		return nil, err
	}

	var slots []*entities.CapacitySlot
	for i, record := range records {
		date, err := parseDate("date", record[2])
		if err != nil {
			return nil, fmt.Errorf("capacity CSV row %d: %w", i+2, err)
		}
		available, err := parseDecimal("available_capacity", record[3])
		if err != nil {
			return nil, fmt.Errorf("capacity CSV row %d: %w", i+2, err)
		}
		slots = append(slots, &entities.CapacitySlot{
			Plant:       record[0],
			Workstation: record[1],
			Date:        date,
			Available:   available,
		})
	}
	return slots, nil
}

// LoadDemands loads root demands from a CSV file; a blank due_date leaves the date unset
func (l *Loader) LoadDemands(filename string) ([]*entities.RootDemand, error) {
	records, err := readTable(filename, "demands", demandHeader)
	if err != nil {
		return nil, err
	}

	var demands []*entities.RootDemand
	for i, record := range records {
		demand, err := parseDemand(record)
		if err != nil {
			return nil, fmt.Errorf("demands CSV row %d: %w", i+2, err)
		}
		demands = append(demands, demand)
	}
	return demands, nil
}

// Helper functions for reading and parsing CSV records

// readTable reads a CSV file, validates its header and returns the data rows
func readTable(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
		for j := range record {
			record[j] = strings.TrimSpace(record[j])
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseBOMLine(record []string) (*entities.BOMLine, error) {
	usage := decimal.NewFromInt(1)
	if record[2] != "" {
		v, err := parseDecimal("usage_per_parent", record[2])
		if err != nil {
			return nil, err
		}
		usage = v
	}

	yield, err := parseOptionalDecimal("yield_rate", record[3])
	if err != nil {
		return nil, err
	}

	active, err := parseOptionalBool("active", record[4], true)
	if err != nil {
		return nil, err
	}

	return entities.NewBOMLine(entities.MaterialCode(record[0]), entities.MaterialCode(record[1]), usage, yield, active)
}

func parseConstraint(record []string) (*entities.MaterialConstraint, error) {
	moq, err := parseOptionalDecimal("moq", record[1])
	if err != nil {
		return nil, err
	}
	packSize, err := parseOptionalDecimal("pack_size", record[2])
	if err != nil {
		return nil, err
	}
	leadTime, err := parseOptionalInt("lead_time_days", record[3])
	if err != nil {
		return nil, err
	}
	safetyStock, err := parseOptionalDecimal("safety_stock", record[4])
	if err != nil {
		return nil, err
	}

	return entities.NewMaterialConstraint(entities.MaterialCode(record[0]), moq, packSize, leadTime, safetyStock)
}

func parseSupplierOffer(record []string) (*entities.SupplierOffer, error) {
	price, err := parseDecimal("unit_price", record[3])
	if err != nil {
		return nil, err
	}
	leadTime, err := parseOptionalInt("lead_time_days", record[4])
	if err != nil {
		return nil, err
	}
	moq, err := parseOptionalDecimal("moq", record[5])
	if err != nil {
		return nil, err
	}

	var otd float64
	if record[6] != "" {
		otd, err = strconv.ParseFloat(record[6], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid on_time_delivery_rate: %s", record[6])
		}
	}

	active, err := parseOptionalBool("active", record[7], true)
	if err != nil {
		return nil, err
	}

	offer, err := entities.NewSupplierOffer(entities.MaterialCode(record[0]), record[1], record[2], price, leadTime, moq, otd)
	if err != nil {
		return nil, err
	}
	offer.Active = active
	return offer, nil
}

func parseDemand(record []string) (*entities.RootDemand, error) {
	quantity, err := parseDecimal("quantity", record[1])
	if err != nil {
		return nil, err
	}

	var dueDate time.Time
	if record[2] != "" {
		dueDate, err = parseDate("due_date", record[2])
		if err != nil {
			return nil, err
		}
	}

	demand, err := entities.NewRootDemand(entities.MaterialCode(record[0]), quantity, dueDate)
	if err != nil {
		return nil, err
	}
	demand.Source = record[3]
	return demand, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

func parseOptionalDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(field, s)
}

func parseOptionalInt(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

func parseOptionalBool(field, s string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", field, s)
	}
	return v, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}
