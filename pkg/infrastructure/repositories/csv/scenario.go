package csv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/infrastructure/repositories/memory"
)

// Scenario file names inside a scenario directory. Only bom.csv is required.
const (
	BOMFile          = "bom.csv"
	InventoryFile    = "inventory.csv"
	InTransitFile    = "in_transit.csv"
	AllocationsFile  = "allocations.csv"
	ReservationsFile = "reservations.csv"
	ConstraintsFile  = "constraints.csv"
	SuppliersFile    = "suppliers.csv"
	CapacityFile     = "capacity.csv"
	DemandsFile      = "demands.csv"
)

// Scenario is the planning data loaded from one directory
type Scenario struct {
	BOMLines    []*entities.BOMLine
	Balances    []*entities.InventoryBalance
	Entries     []*entities.SupplyEntry
	Constraints []*entities.MaterialConstraint
	Suppliers   []*entities.SupplierOffer
	Capacity    []*entities.CapacitySlot
	Demands     []*entities.RootDemand
}

// LoadScenario reads every scenario file present in dir
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	s := &Scenario{}

	bomLines, err := l.LoadBOM(filepath.Join(dir, BOMFile))
	if err != nil {
		return nil, err
	}
	s.BOMLines = bomLines

	if err := loadOptional(dir, InventoryFile, func(path string) (err error) {
		s.Balances, err = l.LoadInventory(path)
		return err
	}); err != nil {
		return nil, err
	}

	entryFiles := []struct {
		name string
		kind entities.SupplyEntryKind
	}{
		{InTransitFile, entities.InTransit},
		{AllocationsFile, entities.SalesAllocation},
		{ReservationsFile, entities.MRPReservation},
	}
	for _, ef := range entryFiles {
		kind := ef.kind
		if err := loadOptional(dir, ef.name, func(path string) error {
			entries, err := l.LoadSupplyEntries(path, kind)
			if err != nil {
				return err
			}
			s.Entries = append(s.Entries, entries...)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	if err := loadOptional(dir, ConstraintsFile, func(path string) (err error) {
		s.Constraints, err = l.LoadConstraints(path)
		return err
	}); err != nil {
		return nil, err
	}

	if err := loadOptional(dir, SuppliersFile, func(path string) (err error) {
		s.Suppliers, err = l.LoadSuppliers(path)
		return err
	}); err != nil {
		return nil, err
	}

	if err := loadOptional(dir, CapacityFile, func(path string) (err error) {
		s.Capacity, err = l.LoadCapacity(path)
		return err
	}); err != nil {
		return nil, err
	}

	if err := loadOptional(dir, DemandsFile, func(path string) (err error) {
		s.Demands, err = l.LoadDemands(path)
		return err
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Populate loads the scenario into in-memory repositories
func (s *Scenario) Populate(
	bomRepo *memory.BOMRepository,
	supplyRepo *memory.SupplyRepository,
	capacityRepo *memory.CapacityRepository,
) error {
	if err := bomRepo.LoadBOMLines(s.BOMLines); err != nil {
		return fmt.Errorf("failed to load BOM lines: %w", err)
	}
	for _, b := range s.Balances {
		supplyRepo.AddBalance(*b)
	}
	for _, e := range s.Entries {
		supplyRepo.AddEntry(*e)
	}
	for _, c := range s.Constraints {
		supplyRepo.SetConstraint(*c)
	}
	for _, o := range s.Suppliers {
		supplyRepo.AddSupplier(*o)
	}
	for _, slot := range s.Capacity {
		capacityRepo.AddSlot(*slot)
	}
	return nil
}

// RootDemands returns the demands by value
func (s *Scenario) RootDemands() []entities.RootDemand {
	demands := make([]entities.RootDemand, 0, len(s.Demands))
	for _, d := range s.Demands {
		demands = append(demands, *d)
	}
	return demands
}

func loadOptional(dir, name string, load func(path string) error) error {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return load(path)
}
