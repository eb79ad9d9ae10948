package explosion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// Config holds explosion tunables
type Config struct {
	// MaxDepth bounds the traversal; nodes at this depth are emitted as leaves
	MaxDepth int
	// CoalesceLevels merges nodes of the same material at the same depth before expanding them
	CoalesceLevels bool
}

// DefaultConfig returns the default explosion configuration
func DefaultConfig() Config {
	return Config{
		MaxDepth:       3,
		CoalesceLevels: true,
	}
}

// Engine explodes a root material through its BOM breadth-first
type Engine struct {
	config  Config
	bomRepo repositories.BOMRepository
	traceID repositories.TraceIDGenerator
}

// NewEngine creates an explosion engine with the default configuration
func NewEngine(bomRepo repositories.BOMRepository, traceID repositories.TraceIDGenerator) *Engine {
	return NewEngineWithConfig(DefaultConfig(), bomRepo, traceID)
}

// NewEngineWithConfig creates an explosion engine with custom configuration
func NewEngineWithConfig(
	config Config,
	bomRepo repositories.BOMRepository,
	traceID repositories.TraceIDGenerator,
) *Engine {
	return &Engine{
		config:  config,
		bomRepo: bomRepo,
		traceID: traceID,
	}
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// frontierNode is a node waiting to be expanded at the current level
type frontierNode struct {
	material entities.MaterialCode
	quantity decimal.Decimal
}

// Explode returns the leaf requirements of root using the configured depth bound
func (e *Engine) Explode(ctx context.Context, root entities.MaterialCode, quantity decimal.Decimal) ([]entities.RequirementNode, error) {
	return e.ExplodeToDepth(ctx, root, quantity, e.config.MaxDepth, time.Time{})
}

// ExplodeDemand explodes a root demand, carrying its due date onto every emitted node
func (e *Engine) ExplodeDemand(ctx context.Context, demand entities.RootDemand, maxDepth int) ([]entities.RequirementNode, error) {
	return e.ExplodeToDepth(ctx, demand.Material, demand.Quantity, maxDepth, demand.DueDate)
}

// ExplodeToDepth performs a level-by-level traversal from root.
//
// A node is emitted when it reaches maxDepth or has no active child lines.
// Child lines are fetched at most once per material per call. With
// CoalesceLevels, nodes of the same material on the same level are summed
// before expansion so a shared sub-assembly is expanded once per level.
func (e *Engine) ExplodeToDepth(
	ctx context.Context,
	root entities.MaterialCode,
	quantity decimal.Decimal,
	maxDepth int,
	needDate time.Time,
) ([]entities.RequirementNode, error) {
	if string(root) == "" {
		return nil, fmt.Errorf("root material code cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("root quantity cannot be negative, got %s", quantity)
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("max depth cannot be negative, got %d", maxDepth)
	}

	arena := make(map[entities.MaterialCode][]*entities.BOMLine)
	var nodes []entities.RequirementNode

	frontier := []frontierNode{{material: root, quantity: quantity}}
	for level := 0; len(frontier) > 0; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.config.CoalesceLevels {
			frontier = coalesce(frontier)
		}

		var next []frontierNode
		for _, node := range frontier {
			if level >= maxDepth {
				nodes = append(nodes, e.leaf(node, level, needDate))
				continue
			}

			lines, err := e.childLines(ctx, arena, node.material)
			if err != nil {
				return nil, err
			}
			if len(lines) == 0 {
				nodes = append(nodes, e.leaf(node, level, needDate))
				continue
			}

			for _, line := range lines {
				next = append(next, frontierNode{
					material: line.ChildCode,
					quantity: line.ChildQuantity(node.quantity),
				})
			}
		}
		frontier = next
	}

	return nodes, nil
}

func (e *Engine) childLines(
	ctx context.Context,
	arena map[entities.MaterialCode][]*entities.BOMLine,
	material entities.MaterialCode,
) ([]*entities.BOMLine, error) {
	if lines, ok := arena[material]; ok {
		return lines, nil
	}
	lines, err := e.bomRepo.GetBomLines(ctx, material)
	if err != nil {
		return nil, fmt.Errorf("failed to get BOM lines for %s: %w", material, err)
	}
	arena[material] = lines
	return lines, nil
}

func (e *Engine) leaf(node frontierNode, level int, needDate time.Time) entities.RequirementNode {
	return entities.RequirementNode{
		Material: node.material,
		Quantity: node.quantity,
		Level:    level,
		NeedDate: needDate,
		TraceID:  e.traceID.GenerateTraceID(repositories.TraceKindNode, string(node.material)),
	}
}

// coalesce sums nodes sharing a material, keeping first-seen order
func coalesce(frontier []frontierNode) []frontierNode {
	index := make(map[entities.MaterialCode]int, len(frontier))
	merged := make([]frontierNode, 0, len(frontier))
	for _, node := range frontier {
		if i, ok := index[node.material]; ok {
			merged[i].quantity = merged[i].quantity.Add(node.quantity)
			continue
		}
		index[node.material] = len(merged)
		merged = append(merged, node)
	}
	return merged
}
