package planning

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/application/services/explosion"
	"github.com/vsinha/mrpatp/pkg/application/services/kitting"
	"github.com/vsinha/mrpatp/pkg/application/services/netting"
	"github.com/vsinha/mrpatp/pkg/application/services/procurement"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// Config holds pipeline tunables
type Config struct {
	// Workers bounds concurrent root explosions
	Workers int
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Engine runs explosion, netting, kit check and procurement as one pipeline.
// It has no side effects beyond provider reads; callers log, persist and publish.
type Engine struct {
	config      Config
	explosion   *explosion.Engine
	netting     *netting.Calculator
	kitting     *kitting.Checker
	procurement *procurement.Generator
}

// NewEngine creates a planning pipeline from its stages
func NewEngine(
	config Config,
	explosionEngine *explosion.Engine,
	nettingCalculator *netting.Calculator,
	kitChecker *kitting.Checker,
	generator *procurement.Generator,
) *Engine {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Engine{
		config:      config,
		explosion:   explosionEngine,
		netting:     nettingCalculator,
		kitting:     kitChecker,
		procurement: generator,
	}
}

// Explosion exposes the explosion stage for single-material queries
func (e *Engine) Explosion() *explosion.Engine {
	return e.explosion
}

// Kitting exposes the kit check stage
func (e *Engine) Kitting() *kitting.Checker {
	return e.kitting
}

// Plan explodes every root demand, nets the merged requirements, checks the
// kit and proposes purchases for the shortages.
func (e *Engine) Plan(ctx context.Context, demands []entities.RootDemand, fromDate time.Time, maxDepth int) (*dto.PlanReport, error) {
	if len(demands) == 0 {
		return nil, fmt.Errorf("no demands provided for planning")
	}

	requirements, err := e.explodeAll(ctx, demands, maxDepth)
	if err != nil {
		return nil, err
	}

	netRequirements, err := e.netting.Net(ctx, requirements, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to net requirements: %w", err)
	}

	kit, err := e.kitting.CheckKit(ctx, netRequirements, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check kit: %w", err)
	}

	suggested, err := e.procurement.Suggest(ctx, kit.Shortages, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	return &dto.PlanReport{
		Requirements:    requirements,
		NetRequirements: netRequirements,
		Kit:             kit,
		Suggestions:     suggested.Suggestions,
		Warnings:        suggested.Warnings,
	}, nil
}

// explodeAll explodes roots concurrently and concatenates the results in root order
func (e *Engine) explodeAll(ctx context.Context, demands []entities.RootDemand, maxDepth int) ([]entities.RequirementNode, error) {
	perRoot := make([][]entities.RequirementNode, len(demands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i, demand := range demands {
		i, demand := i, demand
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("explosion of %s panicked: %v", demand.Material, r)
				}
			}()
			nodes, err := e.explosion.ExplodeDemand(gctx, demand, maxDepth)
			if err != nil {
				return fmt.Errorf("failed to explode %s: %w", demand.Material, err)
			}
			perRoot[i] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []entities.RequirementNode
	for _, nodes := range perRoot {
		merged = append(merged, nodes...)
	}
	return merged, nil
}
