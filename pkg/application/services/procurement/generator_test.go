package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpatp/pkg/application/services/shared"
	testhelpers "github.com/vsinha/mrpatp/pkg/application/services/testing"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

func shortage(material, qty string, fillRate float64) entities.Shortage {
	return entities.Shortage{
		Material:     entities.MaterialCode(material),
		ShortageQty:  testhelpers.D(qty),
		FillRate:     fillRate,
		Urgency:      entities.ClassifyUrgency(fillRate),
		RequiredDate: testhelpers.BaseDate.AddDate(0, 0, 30),
	}
}

func newGenerator(f *testhelpers.Fixture) *Generator {
	return NewGenerator(shared.DefaultValues(), f.Supply, f.TraceIDs)
}

func TestOrderQuantity(t *testing.T) {
	tests := []struct {
		name           string
		qty, pack, moq string
		want           string
	}{
		{"pack then moq", "40", "25", "50", "50"},
		{"pack rounding dominates", "60", "25", "50", "75"},
		{"moq dominates", "10", "1", "100", "100"},
		{"moq not a pack multiple is re-rounded", "10", "25", "60", "75"},
		{"pack of one leaves quantity", "37.5", "1", "0", "37.5"},
		{"fractional pack below one ignored", "3.3", "0.5", "0", "3.3"},
		{"exact multiple untouched", "100", "20", "50", "100"},
		{"repeating division", "100", "3", "0", "102"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderQuantity(testhelpers.D(tt.qty), testhelpers.D(tt.pack), testhelpers.D(tt.moq))
			assert.True(t, got.Equal(testhelpers.D(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

func TestOrderQuantity_Properties(t *testing.T) {
	for _, qty := range []string{"1", "7.5", "24.9999", "25", "26", "399", "1000.0001"} {
		for _, pack := range []string{"1", "2", "12", "25", "7.5"} {
			for _, moq := range []string{"0", "1", "50", "130"} {
				got := OrderQuantity(testhelpers.D(qty), testhelpers.D(pack), testhelpers.D(moq))
				assert.True(t, got.GreaterThanOrEqual(testhelpers.D(moq)), "qty %s pack %s moq %s: %s below moq", qty, pack, moq, got)
				assert.True(t, got.GreaterThanOrEqual(testhelpers.D(qty)), "qty %s pack %s moq %s: %s below shortage", qty, pack, moq, got)
				if testhelpers.D(pack).GreaterThan(testhelpers.D("1")) {
					assert.True(t, got.Mod(testhelpers.D(pack)).IsZero(), "qty %s pack %s moq %s: %s not a pack multiple", qty, pack, moq, got)
				}
			}
		}
	}
}

func TestSuggest_PicksBestSupplier(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddConstraint("M", "1", "25", 10, "0").
		AddSupplier("M", "EXPENSIVE", "Expensive Co", "12.00", 5, "0", 0.99).
		AddSupplier("M", "CHEAP", "Cheap Co", "10.00", 14, "50", 0.8).
		AddSupplier("M", "BULK", "Bulk Co", "8.00", 3, "500", 0.95)

	result, err := newGenerator(f).Suggest(context.Background(), []entities.Shortage{shortage("M", "40", 0.5)}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Len(t, result.Suggestions, 1)

	s := result.Suggestions[0]
	assert.Equal(t, "EXPENSIVE", s.SupplierCode, "only moq-eligible suppliers are preferred")
	assert.True(t, s.SuggestedQty.Equal(testhelpers.D("50")), "got %s", s.SuggestedQty)
	assert.True(t, s.EstimatedCost.Equal(testhelpers.D("600")))
	assert.True(t, s.UnitPrice.Equal(testhelpers.D("12")))
	assert.Equal(t, testhelpers.BaseDate.AddDate(0, 0, 25), s.SuggestedDate)
	assert.Equal(t, entities.UrgencyHigh, s.Urgency)
	assert.Equal(t, "PROC-M-000001", s.TraceID)
	require.Len(t, s.Alternatives, 2)
	assert.Equal(t, "BULK", s.Alternatives[0].SupplierCode)
	assert.Equal(t, "CHEAP", s.Alternatives[1].SupplierCode)
	assert.Contains(t, s.Reason, "shortage of 40")
}

func TestSuggest_ScenarioPackAndMOQ(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddConstraint("M", "0", "25", 7, "0").
		AddSupplier("M", "S1", "Supplier One", "2", 10, "50", 0.9)

	result, err := newGenerator(f).Suggest(context.Background(), []entities.Shortage{shortage("M", "40", 0.2)}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)
	assert.True(t, result.Suggestions[0].SuggestedQty.Equal(testhelpers.D("50")))
	assert.Equal(t, "S1", result.Suggestions[0].SupplierCode, "fallback when moq exceeds shortage")
}

func TestSuggest_NoSupplierIsWarning(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddSupplier("OK", "S1", "Supplier One", "1", 5, "1", 0.9)

	shortages := []entities.Shortage{shortage("ORPHAN", "10", 0.1), shortage("OK", "10", 0.1)}
	result, err := newGenerator(f).Suggest(context.Background(), shortages, testhelpers.BaseDate)
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, entities.MaterialCode("OK"), result.Suggestions[0].Material)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ORPHAN")
}

func TestSuggest_DefaultsWhenConstraintMissing(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddSupplier("M", "S1", "Supplier One", "1", 0, "0", 0.9)

	s := shortage("M", "10", 0.1)
	s.RequiredDate = testhelpers.BaseDate.AddDate(0, 0, 20)
	result, err := newGenerator(f).Suggest(context.Background(), []entities.Shortage{s}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)

	got := result.Suggestions[0]
	assert.True(t, got.SuggestedQty.Equal(testhelpers.D("100")), "default moq 100, got %s", got.SuggestedQty)
	assert.Equal(t, testhelpers.BaseDate.AddDate(0, 0, 13), got.SuggestedDate, "default lead time 7")
	assert.Empty(t, got.Alternatives)
}

func TestSuggest_NoRequiredDateUsesToday(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddSupplier("M", "S1", "Supplier One", "1", 12, "1", 0.9)

	s := shortage("M", "10", 0.1)
	s.RequiredDate = time.Time{}
	result, err := newGenerator(f).Suggest(context.Background(), []entities.Shortage{s}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, testhelpers.BaseDate.AddDate(0, 0, 12), result.Suggestions[0].SuggestedDate)
}

func TestSuggest_CancelledContext(t *testing.T) {
	f := testhelpers.NewFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newGenerator(f).Suggest(ctx, []entities.Shortage{shortage("M", "1", 0)}, testhelpers.BaseDate)
	assert.ErrorIs(t, err, context.Canceled)
}
