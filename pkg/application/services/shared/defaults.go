package shared

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// Defaults are substituted when a provider reports ErrDataUnavailable
type Defaults struct {
	LeadTimeDays int
	MOQ          decimal.Decimal
	PackSize     decimal.Decimal
	SafetyStock  decimal.Decimal
}

// DefaultValues returns the standard planning defaults
func DefaultValues() Defaults {
	return Defaults{
		LeadTimeDays: 7,
		MOQ:          decimal.NewFromInt(100),
		PackSize:     decimal.NewFromInt(1),
		SafetyStock:  decimal.Zero,
	}
}

// QuantityOrDefault resolves a provider quantity lookup.
// ErrDataUnavailable yields def; any other error is returned unchanged.
func QuantityOrDefault(value decimal.Decimal, err error, def decimal.Decimal) (decimal.Decimal, error) {
	if errors.Is(err, repositories.ErrDataUnavailable) {
		return def, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return value, nil
}

// DaysOrDefault resolves a provider day-count lookup the same way as QuantityOrDefault
func DaysOrDefault(value int, err error, def int) (int, error) {
	if errors.Is(err, repositories.ErrDataUnavailable) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}
