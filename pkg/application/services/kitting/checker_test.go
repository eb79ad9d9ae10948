package kitting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vsinha/mrpatp/pkg/application/services/testing"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

func netReq(material, qty string) entities.NetRequirement {
	return entities.NetRequirement{
		Material:       entities.MaterialCode(material),
		NetRequirement: testhelpers.D(qty),
		RequiredDate:   testhelpers.BaseDate.AddDate(0, 0, 14),
	}
}

func TestCheckKit_HalfFilledIsHigh(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("M", "P1", "100", "0")
	checker := NewChecker(f.Supply, f.TraceIDs)

	result, err := checker.CheckKit(context.Background(), []entities.NetRequirement{netReq("M", "200")}, testhelpers.BaseDate)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 0.5, result.Items[0].FillRate)

	require.Len(t, result.Shortages, 1)
	shortage := result.Shortages[0]
	assert.True(t, shortage.ShortageQty.Equal(testhelpers.D("100")))
	assert.Equal(t, entities.UrgencyHigh, shortage.Urgency)
	assert.Equal(t, testhelpers.BaseDate.AddDate(0, 0, 14), shortage.RequiredDate)
	assert.Equal(t, "KIT-M-000001", shortage.TraceID)
	assert.InDelta(t, 50.0, result.OverallFillRate, 1e-9)
	assert.Equal(t, testhelpers.BaseDate, result.CheckDate)
}

func TestCheckKit_EmptyIsFullyFilled(t *testing.T) {
	f := testhelpers.NewFixture()
	checker := NewChecker(f.Supply, f.TraceIDs)

	result, err := checker.CheckKit(context.Background(), nil, testhelpers.BaseDate)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Empty(t, result.Shortages)
	assert.Equal(t, 100.0, result.OverallFillRate)
}

func TestCheckKit_UsesOnHandMinusReserved(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("M", "P1", "100", "80").
		AddBalance("M", "P2", "5", "0")
	checker := NewChecker(f.Supply, f.TraceIDs)

	result, err := checker.CheckKit(context.Background(), []entities.NetRequirement{netReq("M", "100")}, testhelpers.BaseDate)
	require.NoError(t, err)
	assert.True(t, result.Items[0].AvailableQty.Equal(testhelpers.D("25")))
	assert.Equal(t, entities.UrgencyCritical, result.Shortages[0].Urgency)
}

func TestCheckKit_MixedItems(t *testing.T) {
	f := testhelpers.NewFixture()
	f.AddBalance("COVERED", "P1", "500", "0").
		AddBalance("PARTIAL", "P1", "70", "0")
	checker := NewChecker(f.Supply, f.TraceIDs)

	reqs := []entities.NetRequirement{
		netReq("COVERED", "100"),
		netReq("PARTIAL", "100"),
		netReq("MISSING", "100"),
	}
	result, err := checker.CheckKit(context.Background(), reqs, testhelpers.BaseDate)
	require.NoError(t, err)

	require.Len(t, result.Items, 3)
	require.Len(t, result.Shortages, 2)
	assert.Equal(t, entities.UrgencyMedium, result.Shortages[0].Urgency)
	assert.Equal(t, entities.UrgencyCritical, result.Shortages[1].Urgency)

	var mean float64
	for _, item := range result.Items {
		assert.GreaterOrEqual(t, item.FillRate, 0.0)
		assert.LessOrEqual(t, item.FillRate, 1.0)
		mean += item.FillRate
	}
	mean = mean / 3 * 100
	assert.InDelta(t, mean, result.OverallFillRate, 1e-9)
	assert.InDelta(t, (1.0+0.7+0.0)/3*100, result.OverallFillRate, 1e-9)
}

func TestCheckKit_UrgencyMatchesFillRate(t *testing.T) {
	f := testhelpers.NewFixture()
	for _, m := range []struct{ material, onHand string }{
		{"A", "29"}, {"B", "30"}, {"C", "59"}, {"D", "60"}, {"E", "99"},
	} {
		f.AddBalance(m.material, "P1", m.onHand, "0")
	}
	checker := NewChecker(f.Supply, f.TraceIDs)

	var reqs []entities.NetRequirement
	for _, m := range []string{"A", "B", "C", "D", "E"} {
		reqs = append(reqs, netReq(m, "100"))
	}
	result, err := checker.CheckKit(context.Background(), reqs, testhelpers.BaseDate)
	require.NoError(t, err)
	require.Len(t, result.Shortages, 5)

	for _, s := range result.Shortages {
		assert.Equal(t, entities.ClassifyUrgency(s.FillRate), s.Urgency)
		assert.True(t, s.ShortageQty.IsPositive())
	}
	assert.Equal(t, entities.UrgencyCritical, result.Shortages[0].Urgency)
	assert.Equal(t, entities.UrgencyHigh, result.Shortages[1].Urgency)
	assert.Equal(t, entities.UrgencyHigh, result.Shortages[2].Urgency)
	assert.Equal(t, entities.UrgencyMedium, result.Shortages[3].Urgency)
	assert.Equal(t, entities.UrgencyMedium, result.Shortages[4].Urgency)
}
