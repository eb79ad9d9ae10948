package netting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vsinha/mrpatp/pkg/application/services/testing"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

func node(material string, qty string, level int) entities.RequirementNode {
	return entities.RequirementNode{
		Material: entities.MaterialCode(material),
		Quantity: testhelpers.D(qty),
		Level:    level,
	}
}

func newCalculator(f *testhelpers.Fixture) *Calculator {
	return NewCalculator(DefaultConfig(), f.Supply, f.TraceIDs)
}

func TestNet_EmitsPositiveNetRequirement(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("M", "P1", "30", "0").
		AddConstraint("M", "0", "0", 21, "10")

	result, err := newCalculator(f).Net(context.Background(), []entities.RequirementNode{node("M", "100", 1)}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result, 1)

	net := result[0]
	assert.True(t, net.GrossRequirement.Equal(testhelpers.D("100")))
	assert.True(t, net.AvailableQty.Equal(testhelpers.D("30")))
	assert.True(t, net.SafetyStock.Equal(testhelpers.D("10")))
	assert.True(t, net.NetRequirement.Equal(testhelpers.D("60")))
	assert.Equal(t, 21, net.LeadTimeDays)
	assert.Equal(t, testhelpers.BaseDate.AddDate(0, 0, 14), net.RequiredDate)
	assert.Equal(t, "NET-M-000001", net.TraceID)
}

func TestNet_CoveredMaterialProducesNoRow(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("M", "P1", "130", "0").
		AddConstraint("M", "0", "0", 7, "10")

	result, err := newCalculator(f).Net(context.Background(), []entities.RequirementNode{node("M", "100", 1)}, testhelpers.BaseDate)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestNet_ExactlyCoveredProducesNoRow(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("M", "P1", "90", "0").
		AddConstraint("M", "0", "0", 7, "10")

	result, err := newCalculator(f).Net(context.Background(), []entities.RequirementNode{node("M", "100", 1)}, testhelpers.BaseDate)
	require.NoError(t, err)
	assert.Empty(t, result, "net of exactly zero is not emitted")
}

func TestNet_AvailableIncludesInTransitMinusAllocated(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("M", "P1", "50", "0").
		AddInTransit("M", "P1", "20", testhelpers.BaseDate.AddDate(0, 0, 2)).
		AddAllocation("M", "P1", "15", testhelpers.BaseDate)

	result, err := newCalculator(f).Net(context.Background(), []entities.RequirementNode{node("M", "100", 1)}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].AvailableQty.Equal(testhelpers.D("55")))
	assert.True(t, result[0].NetRequirement.Equal(testhelpers.D("45")))
}

func TestNet_AggregatesByMaterial(t *testing.T) {
	f := testhelpers.NewFixture()
	early := testhelpers.BaseDate.AddDate(0, 0, 5)
	late := testhelpers.BaseDate.AddDate(0, 0, 9)

	reqs := []entities.RequirementNode{
		{Material: "B", Quantity: testhelpers.D("10"), Level: 3, NeedDate: late},
		{Material: "A", Quantity: testhelpers.D("1.5"), Level: 2},
		{Material: "B", Quantity: testhelpers.D("2.25"), Level: 1, NeedDate: early},
		{Material: "B", Quantity: testhelpers.D("0.75"), Level: 2},
	}

	result, err := newCalculator(f).Net(context.Background(), reqs, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, entities.MaterialCode("B"), result[0].Material, "first-seen order")
	assert.True(t, result[0].GrossRequirement.Equal(testhelpers.D("13")))
	assert.Equal(t, 1, result[0].Level)
	assert.Equal(t, early, result[0].RequiredDate)

	assert.Equal(t, entities.MaterialCode("A"), result[1].Material)
	assert.Equal(t, 2, result[1].Level)
}

func TestNet_DefaultsWhenDataUnavailable(t *testing.T) {
	f := testhelpers.NewFixture()

	result, err := newCalculator(f).Net(context.Background(), []entities.RequirementNode{node("X", "5", 0)}, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 7, result[0].LeadTimeDays)
	assert.True(t, result[0].SafetyStock.IsZero())
	assert.True(t, result[0].NetRequirement.Equal(testhelpers.D("5")))
}

func TestNet_NetEqualsExactDifference(t *testing.T) {
	tests := []struct {
		gross, onHand, safety string
		emitted               bool
	}{
		{"100", "30", "10", true},
		{"100", "130", "10", false},
		{"10.0001", "10", "0", true},
		{"0.5", "0", "0.4999", true},
		{"7", "0", "7", false},
	}

	for _, tt := range tests {
		f := testhelpers.NewFixture()
		f.AddBalance("M", "P1", tt.onHand, "0").
			AddConstraint("M", "0", "0", 7, tt.safety)

		result, err := newCalculator(f).Net(context.Background(), []entities.RequirementNode{node("M", tt.gross, 0)}, testhelpers.BaseDate)
		require.NoError(t, err)

		want := testhelpers.D(tt.gross).Sub(testhelpers.D(tt.onHand)).Sub(testhelpers.D(tt.safety))
		if !tt.emitted {
			assert.Empty(t, result)
			continue
		}
		require.Len(t, result, 1)
		assert.True(t, result[0].NetRequirement.Equal(want), "gross %s: want %s, got %s", tt.gross, want, result[0].NetRequirement)
	}
}

type brokenSupply struct {
	repositories.SupplyRepository
}

func (brokenSupply) GetOnHand(context.Context, entities.MaterialCode, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("timeout")
}

func TestNet_ProviderErrorFailsRun(t *testing.T) {
	f := testhelpers.NewFixture()
	calc := NewCalculator(DefaultConfig(), brokenSupply{}, f.TraceIDs)

	_, err := calc.Net(context.Background(), []entities.RequirementNode{node("M", "1", 0)}, testhelpers.BaseDate)
	assert.EqualError(t, err, "failed to get on-hand for M: timeout")
}
