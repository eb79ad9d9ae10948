package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

type fakeDB struct {
	queries []string
	args    [][]interface{}

	bomRows      []bomLineRow
	supplierRows []supplierOfferRow
	total        decimal.Decimal
	nullDecimal  decimal.NullDecimal
	nullInt      sql.NullInt64
	payload      []byte

	getErr  error
	execErr error
}

func (f *fakeDB) record(query string, args []interface{}) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
}

func (f *fakeDB) GetContext(_ context.Context, dest any, query string, args ...any) error {
	f.record(query, args)
	if f.getErr != nil {
		return f.getErr
	}
	switch d := dest.(type) {
	case *decimal.Decimal:
		*d = f.total
	case *decimal.NullDecimal:
		*d = f.nullDecimal
	case *sql.NullInt64:
		*d = f.nullInt
	case *[]byte:
		*d = f.payload
	default:
		return fmt.Errorf("unexpected destination %T", dest)
	}
	return nil
}

func (f *fakeDB) SelectContext(_ context.Context, dest any, query string, args ...any) error {
	f.record(query, args)
	switch d := dest.(type) {
	case *[]bomLineRow:
		*d = f.bomRows
	case *[]supplierOfferRow:
		*d = f.supplierRows
	default:
		return fmt.Errorf("unexpected destination %T", dest)
	}
	return nil
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.record(query, args)
	if f.execErr != nil {
		return nil, f.execErr
	}
	return driver.RowsAffected(1), nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBOMRepository_GetBomLines(t *testing.T) {
	db := &fakeDB{bomRows: []bomLineRow{
		{
			ParentCode:     "F1_ENGINE",
			ChildCode:      "INJECTOR_PLATE",
			UsagePerParent: decimal.NewNullDecimal(dec("2")),
			YieldRate:      decimal.NewNullDecimal(dec("0.95")),
			Active:         true,
		},
		{ParentCode: "F1_ENGINE", ChildCode: "GASKET", Active: true},
	}}
	repo := NewBOMRepository(db)

	lines, err := repo.GetBomLines(context.Background(), "F1_ENGINE")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, entities.MaterialCode("INJECTOR_PLATE"), lines[0].ChildCode)
	assert.True(t, lines[0].UsagePerParent.Equal(dec("2")))
	assert.True(t, lines[0].EffectiveYield().Equal(dec("0.95")))

	assert.True(t, lines[1].UsagePerParent.Equal(decimal.NewFromInt(1)), "NULL usage defaults to one")
	assert.True(t, lines[1].EffectiveYield().Equal(decimal.NewFromInt(1)), "NULL yield defaults to one")

	assert.Equal(t, []interface{}{"F1_ENGINE", true}, db.args[0])
}

func TestSupplyRepository_Sums(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{total: dec("7.5")}
	repo := NewSupplyRepository(db)

	got, err := repo.GetOnHand(ctx, "F1_TURBOPUMP", date)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("7.5")))

	_, err = repo.InTransitBefore(ctx, "F1_TURBOPUMP", "MICHOUD", date)
	require.NoError(t, err)
	assert.Contains(t, db.queries[1], "entry_date < $4")

	_, err = repo.ReservedThrough(ctx, "F1_TURBOPUMP", "MICHOUD", date)
	require.NoError(t, err)
	assert.Equal(t, "MRP_RESERVATION", db.args[2][0])
}

func TestSupplyRepository_SumError(t *testing.T) {
	db := &fakeDB{getErr: errors.New("connection reset")}
	repo := NewSupplyRepository(db)

	_, err := repo.GetAvailable(context.Background(), "F1_TURBOPUMP")
	require.Error(t, err)
	assert.Equal(t, "failed to query available for F1_TURBOPUMP: connection reset", err.Error())
}

func TestSupplyRepository_Constraints(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row is unavailable", func(t *testing.T) {
		repo := NewSupplyRepository(&fakeDB{getErr: sql.ErrNoRows})

		_, err := repo.GetSafetyStock(ctx, "X")
		assert.ErrorIs(t, err, repositories.ErrDataUnavailable)
		_, err = repo.GetLeadTime(ctx, "X")
		assert.ErrorIs(t, err, repositories.ErrDataUnavailable)
	})

	t.Run("null column is unavailable", func(t *testing.T) {
		repo := NewSupplyRepository(&fakeDB{})

		_, err := repo.GetMOQ(ctx, "X")
		assert.ErrorIs(t, err, repositories.ErrDataUnavailable)
		_, err = repo.GetLeadTime(ctx, "X")
		assert.ErrorIs(t, err, repositories.ErrDataUnavailable)
	})

	t.Run("zero pack size is unavailable", func(t *testing.T) {
		repo := NewSupplyRepository(&fakeDB{nullDecimal: decimal.NewNullDecimal(decimal.Zero)})

		_, err := repo.GetPackSize(ctx, "X")
		assert.ErrorIs(t, err, repositories.ErrDataUnavailable)
	})

	t.Run("configured values", func(t *testing.T) {
		db := &fakeDB{
			nullDecimal: decimal.NewNullDecimal(dec("10")),
			nullInt:     sql.NullInt64{Int64: 30, Valid: true},
		}
		repo := NewSupplyRepository(db)

		moq, err := repo.GetMOQ(ctx, "INJECTOR_PLATE")
		require.NoError(t, err)
		assert.True(t, moq.Equal(dec("10")))

		lead, err := repo.GetLeadTime(ctx, "INJECTOR_PLATE")
		require.NoError(t, err)
		assert.Equal(t, 30, lead)
		assert.Contains(t, db.queries[1], "SELECT lead_time_days")
	})
}

func TestSupplyRepository_FindActiveSuppliers(t *testing.T) {
	db := &fakeDB{supplierRows: []supplierOfferRow{
		{
			Material:           "F1_TURBOPUMP",
			SupplierCode:       "AEROJET",
			SupplierName:       "Aerojet",
			UnitPrice:          dec("260000"),
			LeadTimeDays:       sql.NullInt64{Int64: 45, Valid: true},
			MOQ:                decimal.NewNullDecimal(dec("1")),
			OnTimeDeliveryRate: 0.97,
			Active:             true,
		},
	}}
	repo := NewSupplyRepository(db)

	offers, err := repo.FindActiveSuppliers(context.Background(), "F1_TURBOPUMP")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "AEROJET", offers[0].SupplierCode)
	assert.Equal(t, 45, offers[0].LeadTimeDays)
	assert.True(t, offers[0].MOQ.Equal(dec("1")))
	assert.True(t, offers[0].PackSize.IsZero())
	assert.InDelta(t, 0.97, offers[0].OnTimeDeliveryRate, 1e-9)
}

func TestCapacityRepository_AvailableCapacity(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	db := &fakeDB{total: dec("3")}
	got, err := NewCapacityRepository(db).AvailableCapacity(ctx, "MICHOUD", "ASSEMBLY_BAY", date)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("3")))
	assert.Equal(t, []interface{}{"MICHOUD", "ASSEMBLY_BAY", "2025-03-31"}, db.args[0])

	_, err = NewCapacityRepository(&fakeDB{getErr: sql.ErrNoRows}).AvailableCapacity(ctx, "MICHOUD", "ASSEMBLY_BAY", date)
	assert.ErrorIs(t, err, repositories.ErrDataUnavailable)
}

func TestResultRepository_SaveResults(t *testing.T) {
	ctx := context.Background()

	t.Run("stores payload", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewResultRepository(db)
		repo.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

		err := repo.SaveResults(ctx, entities.PlanResults{RunID: "RUN-000001"})
		require.NoError(t, err)
		require.Len(t, db.args, 1)
		assert.Equal(t, "RUN-000001", db.args[0][0])
		assert.Contains(t, string(db.args[0][1].([]byte)), `"run_id":"RUN-000001"`)
	})

	t.Run("empty run id", func(t *testing.T) {
		err := NewResultRepository(&fakeDB{}).SaveResults(ctx, entities.PlanResults{})
		require.Error(t, err)
		assert.Equal(t, "run id cannot be empty", err.Error())
	})

	t.Run("duplicate run", func(t *testing.T) {
		db := &fakeDB{execErr: &pq.Error{Code: "23505"}}
		err := NewResultRepository(db).SaveResults(ctx, entities.PlanResults{RunID: "RUN-000001"})
		require.Error(t, err)
		assert.Equal(t, "results for run RUN-000001 already saved", err.Error())
	})
}

func TestResultRepository_GetResults(t *testing.T) {
	ctx := context.Background()

	db := &fakeDB{payload: []byte(`{"run_id":"RUN-000002","net_requirements":[]}`)}
	results, err := NewResultRepository(db).GetResults(ctx, "RUN-000002")
	require.NoError(t, err)
	assert.Equal(t, "RUN-000002", results.RunID)

	_, err = NewResultRepository(&fakeDB{getErr: sql.ErrNoRows}).GetResults(ctx, "RUN-404")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
