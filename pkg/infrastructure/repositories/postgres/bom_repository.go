package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

type bomLineRow struct {
	ParentCode     string              `db:"parent_code"`
	ChildCode      string              `db:"child_code"`
	UsagePerParent decimal.NullDecimal `db:"usage_per_parent"`
	YieldRate      decimal.NullDecimal `db:"yield_rate"`
	Active         bool                `db:"active"`
}

// toEntity maps a row to a BOMLine; a NULL usage counts as one per parent
func (r bomLineRow) toEntity() *entities.BOMLine {
	usage := decimal.NewFromInt(1)
	if r.UsagePerParent.Valid {
		usage = r.UsagePerParent.Decimal
	}
	var yield decimal.Decimal
	if r.YieldRate.Valid {
		yield = r.YieldRate.Decimal
	}
	return &entities.BOMLine{
		ParentCode:     entities.MaterialCode(r.ParentCode),
		ChildCode:      entities.MaterialCode(r.ChildCode),
		UsagePerParent: usage,
		YieldRate:      yield,
		Active:         r.Active,
	}
}

// BOMRepository reads BOM lines from the bom_lines table
type BOMRepository struct {
	db DB
}

// NewBOMRepository creates a BOM repository over db
func NewBOMRepository(db DB) *BOMRepository {
	return &BOMRepository{db: db}
}

var _ repositories.BOMRepository = (*BOMRepository)(nil)

// GetBomLines returns the active child lines of parent in line order
func (r *BOMRepository) GetBomLines(ctx context.Context, parent entities.MaterialCode) ([]*entities.BOMLine, error) {
	query, args := bomLinesQuery(parent)

	var rows []bomLineRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query BOM lines for %s: %w", parent, err)
	}

	lines := make([]*entities.BOMLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.toEntity())
	}
	return lines, nil
}
