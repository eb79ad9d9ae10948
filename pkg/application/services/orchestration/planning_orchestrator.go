package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/application/services/atp"
	"github.com/vsinha/mrpatp/pkg/application/services/planning"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
	"github.com/vsinha/mrpatp/pkg/infrastructure/events"
	"github.com/vsinha/mrpatp/pkg/infrastructure/metrics"
)

// Promise query kinds used as metric labels
const (
	kindATP      = "atp"
	kindBatchATP = "atp_batch"
	kindCTP      = "ctp"
)

// Config holds orchestration settings
type Config struct {
	// MaxDepth is the explosion depth used when a request does not set one
	MaxDepth int
	// RunTimeout bounds a planning run; zero disables the timeout
	RunTimeout time.Duration
}

// DefaultConfig returns the default orchestration settings
func DefaultConfig() Config {
	return Config{MaxDepth: 3, RunTimeout: 2 * time.Minute}
}

// PlanningOrchestrator is the entry point for planning runs and promise queries.
// It wraps the pure pipeline with run ids, timeouts, persistence, events,
// metrics and logging.
type PlanningOrchestrator struct {
	config    Config
	planner   *planning.Engine
	promise   *atp.Calculator
	results   repositories.ResultRepository
	traceID   repositories.TraceIDGenerator
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlanningOrchestrator creates a new planning orchestrator.
// A nil publisher discards events, nil metrics register on a private registry
// and a nil logger is a no-op.
func NewPlanningOrchestrator(
	config Config,
	planner *planning.Engine,
	promise *atp.Calculator,
	results repositories.ResultRepository,
	traceID repositories.TraceIDGenerator,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PlanningOrchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningOrchestrator{
		config:    config,
		planner:   planner,
		promise:   promise,
		results:   results,
		traceID:   traceID,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// RunPlanning executes one planning run. It never returns an error: failures,
// including panics and timeouts, come back as a FAILED result and nothing is saved.
func (po *PlanningOrchestrator) RunPlanning(ctx context.Context, req dto.PlanningRequest) dto.PlanningRunResult {
	start := po.now()
	runID := po.traceID.GenerateTraceID(repositories.TraceKindRun, "")
	log := po.logger.With(zap.String("run_id", runID))

	maxDepth := po.config.MaxDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}
	fromDate := req.FromDate
	if fromDate.IsZero() {
		fromDate = entities.DateOnly(start.UTC())
	}

	log.Info("planning run started",
		zap.Int("demands", len(req.Demands)),
		zap.Int("max_depth", maxDepth),
		zap.Time("from_date", fromDate),
	)

	runCtx := ctx
	if po.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, po.config.RunTimeout)
		defer cancel()
	}

	report, err := po.plan(runCtx, req.Demands, fromDate, maxDepth)
	if err == nil {
		err = po.save(runCtx, runID, report)
	}

	duration := po.now().Sub(start)
	result := dto.PlanningRunResult{
		RunID:      runID,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  start.UTC(),
	}

	if err != nil {
		result.Status = dto.StatusFailed
		result.ErrorMessage = err.Error()

		log.Error("planning run failed", zap.Error(err), zap.Duration("duration", duration))
		po.metrics.ObserveRun(string(dto.StatusFailed), duration)
		po.publish(ctx, events.NewEvent(events.RunFailedEvent, runID, events.RunFailed{
			RunID:        runID,
			ErrorMessage: result.ErrorMessage,
			DurationMs:   result.DurationMs,
		}))
		return result
	}

	result.Status = dto.StatusCompleted
	result.RequirementCount = len(report.NetRequirements)
	result.ShortageCount = len(report.Kit.Shortages)
	result.SuggestionCount = len(report.Suggestions)
	result.Warnings = report.Warnings
	result.Report = report

	for _, w := range report.Warnings {
		log.Warn("planning warning", zap.String("warning", w))
	}
	log.Info("planning run completed",
		zap.Int("net_requirements", result.RequirementCount),
		zap.Int("shortages", result.ShortageCount),
		zap.Int("suggestions", result.SuggestionCount),
		zap.Float64("fill_rate", report.Kit.OverallFillRate),
		zap.Duration("duration", duration),
	)

	po.recordRun(report, duration)
	po.publishRun(ctx, result, report)
	return result
}

// plan runs the pipeline, turning a panic into an error
func (po *PlanningOrchestrator) plan(
	ctx context.Context,
	demands []entities.RootDemand,
	fromDate time.Time,
	maxDepth int,
) (report *dto.PlanReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("planning run panicked: %v", r)
		}
	}()
	return po.planner.Plan(ctx, demands, fromDate, maxDepth)
}

func (po *PlanningOrchestrator) save(ctx context.Context, runID string, report *dto.PlanReport) error {
	if po.results == nil {
		return nil
	}
	err := po.results.SaveResults(ctx, entities.PlanResults{
		RunID:           runID,
		NetRequirements: report.NetRequirements,
		Kit:             report.Kit,
		Suggestions:     report.Suggestions,
	})
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}

func (po *PlanningOrchestrator) recordRun(report *dto.PlanReport, duration time.Duration) {
	po.metrics.ObserveRun(string(dto.StatusCompleted), duration)
	for _, s := range report.Kit.Shortages {
		po.metrics.ShortagesTotal.WithLabelValues(string(s.Urgency)).Inc()
	}
	po.metrics.SuggestionsTotal.Add(float64(len(report.Suggestions)))
	po.metrics.UnsourcedShortagesTotal.Add(float64(len(report.Warnings)))
}

func (po *PlanningOrchestrator) publishRun(ctx context.Context, result dto.PlanningRunResult, report *dto.PlanReport) {
	for _, s := range report.Kit.Shortages {
		po.publish(ctx, events.NewEvent(events.ShortageIdentifiedEvent, result.RunID, events.ShortageIdentified{
			RunID:    result.RunID,
			Shortage: s,
		}))
	}
	for _, s := range report.Suggestions {
		po.publish(ctx, events.NewEvent(events.SuggestionCreatedEvent, result.RunID, events.SuggestionCreated{
			RunID:      result.RunID,
			Suggestion: s,
		}))
	}
	po.publish(ctx, events.NewEvent(events.RunCompletedEvent, result.RunID, events.RunCompleted{
		RunID:            result.RunID,
		RequirementCount: result.RequirementCount,
		ShortageCount:    result.ShortageCount,
		SuggestionCount:  result.SuggestionCount,
		DurationMs:       result.DurationMs,
		Warnings:         result.Warnings,
	}))
}

// publish delivers an event; delivery failures are logged and do not fail the caller
func (po *PlanningOrchestrator) publish(ctx context.Context, event events.Event) {
	if err := po.publisher.Publish(ctx, event); err != nil {
		po.logger.Warn("failed to publish event",
			zap.String("event_type", event.Type),
			zap.String("stream_id", event.StreamID),
			zap.Error(err),
		)
	}
}

// GetRun returns the saved results of a completed run.
// Failed and unknown runs yield repositories.ErrNotFound.
func (po *PlanningOrchestrator) GetRun(ctx context.Context, runID string) (entities.PlanResults, error) {
	if po.results == nil {
		return entities.PlanResults{}, fmt.Errorf("run %s: %w", runID, repositories.ErrNotFound)
	}
	return po.results.GetResults(ctx, runID)
}

// ExplodeBom explodes a single material to maxDepth levels
func (po *PlanningOrchestrator) ExplodeBom(
	ctx context.Context,
	material entities.MaterialCode,
	quantity decimal.Decimal,
	maxDepth int,
) ([]entities.RequirementNode, error) {
	return po.planner.Explosion().ExplodeToDepth(ctx, material, quantity, maxDepth, time.Time{})
}

// CheckKit checks current availability of the given net requirements
func (po *PlanningOrchestrator) CheckKit(ctx context.Context, requirements []entities.NetRequirement) (entities.KitCheckResult, error) {
	return po.planner.Kitting().CheckKit(ctx, requirements, entities.DateOnly(po.now().UTC()))
}

// ComputeATP answers an available-to-promise query
func (po *PlanningOrchestrator) ComputeATP(ctx context.Context, req entities.ATPRequest) (entities.ATPResult, error) {
	start := po.now()
	result, err := po.promise.ComputeATP(ctx, req)
	po.metrics.ObservePromise(kindATP, outcome(result.CanFulfill, err), po.now().Sub(start))
	if err != nil {
		return entities.ATPResult{}, err
	}

	po.logger.Debug("atp calculated",
		zap.String("trace_id", result.TraceID),
		zap.String("material", string(result.Material)),
		zap.String("plant", result.Plant),
		zap.String("atp_qty", result.ATPQty.String()),
		zap.Bool("can_fulfill", result.CanFulfill),
	)
	po.publish(ctx, events.NewEvent(events.ATPCalculatedEvent, result.TraceID, events.ATPCalculated{Result: result}))
	return result, nil
}

// ComputeBatchATP answers several ATP queries in request order
func (po *PlanningOrchestrator) ComputeBatchATP(ctx context.Context, reqs []entities.ATPRequest) ([]entities.ATPResult, error) {
	start := po.now()
	results, err := po.promise.ComputeBatchATP(ctx, reqs)
	fulfilled := err == nil
	for _, r := range results {
		fulfilled = fulfilled && r.CanFulfill
	}
	po.metrics.ObservePromise(kindBatchATP, outcome(fulfilled, err), po.now().Sub(start))
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ComputeCTP answers a capable-to-promise query
func (po *PlanningOrchestrator) ComputeCTP(ctx context.Context, req entities.CTPRequest) (entities.CTPResult, error) {
	start := po.now()
	result, err := po.promise.ComputeCTP(ctx, req)
	po.metrics.ObservePromise(kindCTP, outcome(result.CanFulfill, err), po.now().Sub(start))
	if err != nil {
		return entities.CTPResult{}, err
	}

	po.logger.Debug("ctp calculated",
		zap.String("material", string(result.Material)),
		zap.String("workstation", result.Workstation),
		zap.String("constraint", string(result.Constraint)),
		zap.Bool("can_fulfill", result.CanFulfill),
	)
	return result, nil
}

func outcome(fulfilled bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case fulfilled:
		return "fulfilled"
	default:
		return "short"
	}
}
