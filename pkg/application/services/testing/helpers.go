package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mrpatp/pkg/infrastructure/trace"
)

// BaseDate is the planning date used by the canned scenarios
var BaseDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// D parses a decimal literal, panicking on malformed input
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Fixture bundles the in-memory repositories a planning test needs
type Fixture struct {
	BOM      *memory.BOMRepository
	Supply   *memory.SupplyRepository
	Capacity *memory.CapacityRepository
	Results  *memory.ResultRepository
	TraceIDs *trace.SequentialGenerator
}

// NewFixture creates an empty fixture
func NewFixture() *Fixture {
	return &Fixture{
		BOM:      memory.NewBOMRepository(16),
		Supply:   memory.NewSupplyRepository(),
		Capacity: memory.NewCapacityRepository(),
		Results:  memory.NewResultRepository(),
		TraceIDs: trace.NewSequentialGenerator(),
	}
}

// AddLine adds an active BOM line; an empty yield means unset
func (f *Fixture) AddLine(parent, child, usage, yield string) *Fixture {
	y := decimal.Zero
	if yield != "" {
		y = D(yield)
	}
	line, err := entities.NewBOMLine(entities.MaterialCode(parent), entities.MaterialCode(child), D(usage), y, true)
	if err != nil {
		panic(err)
	}
	f.BOM.AddBOMLine(*line)
	return f
}

// AddBalance adds on-hand stock at a plant
func (f *Fixture) AddBalance(material, plant, quantity, reserved string) *Fixture {
	balance, err := entities.NewInventoryBalance(entities.MaterialCode(material), plant, D(quantity), D(reserved))
	if err != nil {
		panic(err)
	}
	f.Supply.AddBalance(*balance)
	return f
}

// AddInTransit adds an inbound order arriving on date
func (f *Fixture) AddInTransit(material, plant, quantity string, date time.Time) *Fixture {
	return f.addEntry(entities.InTransit, material, plant, quantity, date)
}

// AddAllocation adds a sales allocation dated on date
func (f *Fixture) AddAllocation(material, plant, quantity string, date time.Time) *Fixture {
	return f.addEntry(entities.SalesAllocation, material, plant, quantity, date)
}

// AddReservation adds an MRP reservation dated on date
func (f *Fixture) AddReservation(material, plant, quantity string, date time.Time) *Fixture {
	return f.addEntry(entities.MRPReservation, material, plant, quantity, date)
}

func (f *Fixture) addEntry(kind entities.SupplyEntryKind, material, plant, quantity string, date time.Time) *Fixture {
	entry, err := entities.NewSupplyEntry(kind, entities.MaterialCode(material), plant, D(quantity), date)
	if err != nil {
		panic(err)
	}
	f.Supply.AddEntry(*entry)
	return f
}

// AddConstraint sets the planning constraint of a material
func (f *Fixture) AddConstraint(material, moq, packSize string, leadTimeDays int, safetyStock string) *Fixture {
	c, err := entities.NewMaterialConstraint(entities.MaterialCode(material), D(moq), D(packSize), leadTimeDays, D(safetyStock))
	if err != nil {
		panic(err)
	}
	f.Supply.SetConstraint(*c)
	return f
}

// AddSupplier registers an active supplier offer
func (f *Fixture) AddSupplier(material, code, name, price string, leadTimeDays int, moq string, otd float64) *Fixture {
	offer, err := entities.NewSupplierOffer(entities.MaterialCode(material), code, name, D(price), leadTimeDays, D(moq), otd)
	if err != nil {
		panic(err)
	}
	f.Supply.AddSupplier(*offer)
	return f
}

// AddCapacity sets a workstation's capacity on date
func (f *Fixture) AddCapacity(plant, workstation, available string, date time.Time) *Fixture {
	f.Capacity.AddSlot(entities.CapacitySlot{
		Plant:       plant,
		Workstation: workstation,
		Date:        date,
		Available:   D(available),
	})
	return f
}

// BuildAerospaceTestData builds a launch-vehicle scenario with a shared
// injector sub-assembly, partial stock, in-transit supply and suppliers.
//
//	SATURN_V
//	├── F1_ENGINE x5
//	│   ├── F1_TURBOPUMP x1
//	│   └── INJECTOR_PLATE x1 (yield 0.95)
//	└── J2_ENGINE x6
//	    └── INJECTOR_PLATE x1
func BuildAerospaceTestData() *Fixture {
	f := NewFixture()

	f.AddLine("SATURN_V", "F1_ENGINE", "5", "").
		AddLine("SATURN_V", "J2_ENGINE", "6", "").
		AddLine("F1_ENGINE", "F1_TURBOPUMP", "1", "").
		AddLine("F1_ENGINE", "INJECTOR_PLATE", "1", "0.95").
		AddLine("J2_ENGINE", "INJECTOR_PLATE", "1", "")

	f.AddBalance("F1_TURBOPUMP", "MICHOUD", "2", "0").
		AddBalance("INJECTOR_PLATE", "MICHOUD", "4", "1").
		AddBalance("INJECTOR_PLATE", "STENNIS", "3", "0")

	f.AddInTransit("F1_TURBOPUMP", "MICHOUD", "1", BaseDate.AddDate(0, 0, 3)).
		AddAllocation("INJECTOR_PLATE", "MICHOUD", "2", BaseDate)

	f.AddConstraint("F1_TURBOPUMP", "5", "5", 60, "1").
		AddConstraint("INJECTOR_PLATE", "10", "10", 30, "0")

	f.AddSupplier("F1_TURBOPUMP", "ROCKETDYNE", "Rocketdyne", "250000", 60, "5", 0.92).
		AddSupplier("F1_TURBOPUMP", "AEROJET", "Aerojet", "260000", 45, "1", 0.97).
		AddSupplier("INJECTOR_PLATE", "PRECISION_CAST", "Precision Castparts", "1200", 30, "10", 0.9)

	f.AddCapacity("MICHOUD", "ASSEMBLY_BAY", "3", BaseDate.AddDate(0, 0, 30))

	return f
}

// BuildSimpleTestData builds a two-level A -> B, C scenario with no supply
func BuildSimpleTestData() *Fixture {
	f := NewFixture()
	f.AddLine("A", "B", "2", "1").
		AddLine("A", "C", "1", "")
	return f
}
