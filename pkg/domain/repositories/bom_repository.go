package repositories

import (
	"context"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	// GetBomLines returns the active child lines of a parent material.
	// A material with no lines is a leaf and yields an empty slice, not an error.
	GetBomLines(ctx context.Context, parent entities.MaterialCode) ([]*entities.BOMLine, error)
}
