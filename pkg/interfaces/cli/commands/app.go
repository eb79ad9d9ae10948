package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/application/services/atp"
	"github.com/vsinha/mrpatp/pkg/application/services/explosion"
	"github.com/vsinha/mrpatp/pkg/application/services/kitting"
	"github.com/vsinha/mrpatp/pkg/application/services/netting"
	"github.com/vsinha/mrpatp/pkg/application/services/orchestration"
	"github.com/vsinha/mrpatp/pkg/application/services/planning"
	"github.com/vsinha/mrpatp/pkg/application/services/procurement"
	"github.com/vsinha/mrpatp/pkg/application/services/shared"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
	"github.com/vsinha/mrpatp/pkg/infrastructure/cache"
	"github.com/vsinha/mrpatp/pkg/infrastructure/config"
	"github.com/vsinha/mrpatp/pkg/infrastructure/events"
	"github.com/vsinha/mrpatp/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpatp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/mrpatp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mrpatp/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/mrpatp/pkg/infrastructure/trace"
)

// supplyStore is what the planning and promise paths read supply from
type supplyStore interface {
	repositories.SupplyRepository
	repositories.PlantSupplyRepository
}

// stores groups the repositories of one data source
type stores struct {
	bom      repositories.BOMRepository
	supply   supplyStore
	capacity repositories.CapacityRepository
	results  repositories.ResultRepository
	demands  []entities.RootDemand
}

// App is the wired planning service used by every command
type App struct {
	Config       *config.Config
	Orchestrator *orchestration.PlanningOrchestrator
	Registry     *prometheus.Registry
	Logger       *zap.Logger
	// Demands are the root demands shipped with the data source, if any
	Demands []entities.RootDemand

	closers []func() error
}

// NewApp builds repositories, the planning pipeline and the orchestrator from cfg
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	m := metrics.New(app.Registry)

	st, err := app.openStores(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Demands = st.demands

	if cfg.RedisConfigured() {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, rdb.Close)
		st.bom = cache.NewBOMCache(st.bom, rdb, cfg.BOMCacheTTL, m, logger)
		logger.Info("BOM cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	var publisher events.Publisher
	if cfg.KafkaConfigured() {
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		}, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, kp.Close)
		publisher = kp
	} else {
		store := events.NewInMemoryEventStore(logger)
		store.Subscribe(func(e events.Event) error {
			logger.Debug("planning event",
				zap.String("event_type", e.Type),
				zap.String("stream_id", e.StreamID),
				zap.Int("sequence", e.Sequence),
			)
			return nil
		})
		publisher = store
	}

	traceID := trace.NewUUIDGenerator()
	defaults := shared.Defaults{
		LeadTimeDays: cfg.DefaultLeadTimeDays,
		MOQ:          decimal.NewFromInt(int64(cfg.DefaultMOQ)),
		PackSize:     decimal.NewFromInt(1),
		SafetyStock:  decimal.Zero,
	}

	planner := planning.NewEngine(
		planning.Config{Workers: cfg.PlanningWorkers},
		explosion.NewEngineWithConfig(explosion.Config{
			MaxDepth:       cfg.MaxDepth,
			CoalesceLevels: cfg.CoalesceLevels,
		}, st.bom, traceID),
		netting.NewCalculator(netting.Config{
			RequiredDateOffsetDays: cfg.RequiredDateOffsetDays,
			Defaults:               defaults,
		}, st.supply, traceID),
		kitting.NewChecker(st.supply, traceID),
		procurement.NewGenerator(defaults, st.supply, traceID),
	)
	promise := atp.NewCalculator(atp.Config{
		HorizonDays:     cfg.ATPHorizonDays,
		DefaultCapacity: decimal.NewFromInt(int64(cfg.ATPDefaultCapacity)),
	}, st.supply, st.capacity, traceID)

	app.Orchestrator = orchestration.NewPlanningOrchestrator(
		orchestration.Config{MaxDepth: cfg.MaxDepth, RunTimeout: cfg.RunTimeout},
		planner,
		promise,
		st.results,
		traceID,
		publisher,
		m,
		logger,
	)
	return app, nil
}

func (a *App) openStores(ctx context.Context) (*stores, error) {
	switch a.Config.DataSource {
	case "postgres":
		db, err := postgres.Open(ctx, a.Config.PostgresDSN())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		a.Logger.Info("using postgres data source", zap.String("host", a.Config.DBHost), zap.String("db", a.Config.DBName))
		return &stores{
			bom:      postgres.NewBOMRepository(db),
			supply:   postgres.NewSupplyRepository(db),
			capacity: postgres.NewCapacityRepository(db),
			results:  postgres.NewResultRepository(db),
		}, nil

	case "csv":
		scenario, err := csv.NewLoader().LoadScenario(a.Config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario from %s: %w", a.Config.DataDir, err)
		}
		bomRepo := memory.NewBOMRepository(len(scenario.BOMLines))
		supplyRepo := memory.NewSupplyRepository()
		capacityRepo := memory.NewCapacityRepository()
		if err := scenario.Populate(bomRepo, supplyRepo, capacityRepo); err != nil {
			return nil, err
		}
		a.Logger.Info("loaded scenario",
			zap.String("dir", a.Config.DataDir),
			zap.Int("bom_lines", len(scenario.BOMLines)),
			zap.Int("demands", len(scenario.Demands)),
		)
		return &stores{
			bom:      bomRepo,
			supply:   supplyRepo,
			capacity: capacityRepo,
			results:  memory.NewResultRepository(),
			demands:  scenario.RootDemands(),
		}, nil

	default:
		return &stores{
			bom:      memory.NewBOMRepository(0),
			supply:   memory.NewSupplyRepository(),
			capacity: memory.NewCapacityRepository(),
			results:  memory.NewResultRepository(),
		}, nil
	}
}

// Close releases connections in reverse order of opening
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}
