package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

func parseQuantity(s string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity: %s", s)
	}
	return qty, nil
}

func parsePositiveQuantity(s string) (decimal.Decimal, error) {
	qty, err := parseQuantity(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !qty.IsPositive() {
		return decimal.Zero, fmt.Errorf("quantity must be positive, got %s", s)
	}
	return qty, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseDemand parses MATERIAL=QTY or MATERIAL=QTY@YYYY-MM-DD
func parseDemand(s string) (entities.RootDemand, error) {
	material, rest, ok := strings.Cut(s, "=")
	if !ok || material == "" {
		return entities.RootDemand{}, fmt.Errorf("invalid demand %q: expected MATERIAL=QTY[@YYYY-MM-DD]", s)
	}
	qtyText, dateText, hasDate := strings.Cut(rest, "@")

	qty, err := parseQuantity(qtyText)
	if err != nil {
		return entities.RootDemand{}, fmt.Errorf("invalid demand %q: %w", s, err)
	}
	var due time.Time
	if hasDate {
		if due, err = parseDate(dateText); err != nil {
			return entities.RootDemand{}, fmt.Errorf("invalid demand %q: %w", s, err)
		}
	}

	demand, err := entities.NewRootDemand(entities.MaterialCode(material), qty, due)
	if err != nil {
		return entities.RootDemand{}, fmt.Errorf("invalid demand %q: %w", s, err)
	}
	demand.Source = "cli"
	return *demand, nil
}
