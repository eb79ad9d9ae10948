package memory

import (
	"context"
	"sync"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage indexed by parent material
type BOMRepository struct {
	mu         sync.RWMutex
	bomLines   []entities.BOMLine
	bomIndexes map[entities.MaterialCode][]int
}

// NewBOMRepository creates a BOM repository sized for expectedBOMLines
func NewBOMRepository(expectedBOMLines int) *BOMRepository {
	return &BOMRepository{
		bomLines:   make([]entities.BOMLine, 0, expectedBOMLines),
		bomIndexes: make(map[entities.MaterialCode][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMLines loads BOM lines into the repository
func (r *BOMRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		r.AddBOMLine(*line)
	}
	return nil
}

// AddBOMLine adds a BOM line to the repository
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := len(r.bomLines)
	r.bomLines = append(r.bomLines, line)
	r.bomIndexes[line.ParentCode] = append(r.bomIndexes[line.ParentCode], index)
}

// GetBomLines returns the active child lines of parent in insertion order
func (r *BOMRepository) GetBomLines(ctx context.Context, parent entities.MaterialCode) ([]*entities.BOMLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := r.bomIndexes[parent]
	lines := make([]*entities.BOMLine, 0, len(indexes))
	for _, idx := range indexes {
		if !r.bomLines[idx].Active {
			continue
		}
		line := r.bomLines[idx]
		lines = append(lines, &line)
	}
	return lines, nil
}
