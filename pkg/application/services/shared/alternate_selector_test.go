package shared

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

func offer(code string, price string, lead int, moq int64, otd float64) *entities.SupplierOffer {
	return &entities.SupplierOffer{
		Material:           "M1",
		SupplierCode:       code,
		SupplierName:       code,
		Price:              decimal.RequireFromString(price),
		LeadTimeDays:       lead,
		MOQ:                decimal.NewFromInt(moq),
		OnTimeDeliveryRate: otd,
		Active:             true,
	}
}

func codes(offers []*entities.SupplierOffer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.SupplierCode
	}
	return out
}

func TestRankSuppliers(t *testing.T) {
	tests := []struct {
		name     string
		offers   []*entities.SupplierOffer
		quantity int64
		want     []string
	}{
		{
			name:     "cheapest wins",
			offers:   []*entities.SupplierOffer{offer("S1", "5.00", 10, 0, 0.9), offer("S2", "4.50", 20, 0, 0.8)},
			quantity: 100,
			want:     []string{"S2", "S1"},
		},
		{
			name:     "equal price prefers shorter lead time",
			offers:   []*entities.SupplierOffer{offer("S1", "5", 10, 0, 0.9), offer("S2", "5", 5, 0, 0.8)},
			quantity: 100,
			want:     []string{"S2", "S1"},
		},
		{
			name:     "equal price and lead prefers higher on-time rate",
			offers:   []*entities.SupplierOffer{offer("S1", "5", 10, 0, 0.8), offer("S2", "5", 10, 0, 0.95)},
			quantity: 100,
			want:     []string{"S2", "S1"},
		},
		{
			name:     "moq within quantity beats cheaper oversized moq",
			offers:   []*entities.SupplierOffer{offer("BULK", "1", 5, 500, 0.99), offer("SMALL", "3", 5, 50, 0.9)},
			quantity: 100,
			want:     []string{"SMALL", "BULK"},
		},
		{
			name:     "falls back to any supplier when all moqs exceed quantity",
			offers:   []*entities.SupplierOffer{offer("S1", "3", 5, 500, 0.9), offer("S2", "2", 5, 300, 0.9)},
			quantity: 100,
			want:     []string{"S2", "S1"},
		},
		{
			name:     "missing lead time ranks with the default",
			offers:   []*entities.SupplierOffer{offer("S1", "5", 0, 0, 0.9), offer("S2", "5", 6, 0, 0.9)},
			quantity: 10,
			want:     []string{"S2", "S1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankSuppliers(tt.offers, decimal.NewFromInt(tt.quantity), 7)
			assert.Equal(t, tt.want, codes(ranked))
		})
	}
}

func TestSelectBestSupplier_Empty(t *testing.T) {
	assert.Nil(t, SelectBestSupplier(nil, decimal.NewFromInt(10), 7))
}

func TestQuantityOrDefault(t *testing.T) {
	def := decimal.NewFromInt(100)

	got, err := QuantityOrDefault(decimal.NewFromInt(5), nil, def)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(5)))

	got, err = QuantityOrDefault(decimal.Zero, repositories.ErrDataUnavailable, def)
	require.NoError(t, err)
	assert.True(t, got.Equal(def))

	boom := errors.New("boom")
	_, err = QuantityOrDefault(decimal.Zero, boom, def)
	assert.ErrorIs(t, err, boom)
}

func TestDaysOrDefault(t *testing.T) {
	got, err := DaysOrDefault(0, repositories.ErrDataUnavailable, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = DaysOrDefault(12, nil, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, got)
}
