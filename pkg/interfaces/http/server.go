// Package httpapi exposes planning runs and promise queries over a thin JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

// Service is the planning surface served by the API
type Service interface {
	RunPlanning(ctx context.Context, req dto.PlanningRequest) dto.PlanningRunResult
	ExplodeBom(ctx context.Context, material entities.MaterialCode, quantity decimal.Decimal, maxDepth int) ([]entities.RequirementNode, error)
	CheckKit(ctx context.Context, requirements []entities.NetRequirement) (entities.KitCheckResult, error)
	ComputeATP(ctx context.Context, req entities.ATPRequest) (entities.ATPResult, error)
	ComputeBatchATP(ctx context.Context, reqs []entities.ATPRequest) ([]entities.ATPResult, error)
	ComputeCTP(ctx context.Context, req entities.CTPRequest) (entities.CTPResult, error)
	GetRun(ctx context.Context, runID string) (entities.PlanResults, error)
}

// Config holds API settings
type Config struct {
	// ServiceName names the server in traces
	ServiceName string
	// DefaultMaxDepth is used by /explode when the request sets no depth
	DefaultMaxDepth int
}

// Server is the HTTP front end of the planning service
type Server struct {
	echo    *echo.Echo
	config  Config
	service Service
	logger  *zap.Logger
}

// NewServer wires routes and middleware. gatherer backs /metrics and may be nil.
func NewServer(config Config, service Service, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{echo: e, config: config, service: service, logger: logger}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if config.ServiceName != "" {
		e.Use(otelecho.Middleware(config.ServiceName))
	}
	e.Use(s.requestLogger)

	e.GET("/healthz", s.health)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	g := e.Group("/api/mrp")
	g.POST("/plan", s.plan)
	g.POST("/explode", s.explode)
	g.POST("/kit-check", s.kitCheck)
	g.POST("/atp", s.atp)
	g.POST("/atp/batch", s.batchATP)
	g.POST("/ctp", s.ctp)
	g.GET("/runs/:id", s.getRun)

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestLogger logs one line per request
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		res := c.Response()
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", c.Path()),
			zap.Int("status", res.Status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
		}
		if res.Status >= http.StatusInternalServerError {
			s.logger.Error("request failed", append(fields, zap.Error(err))...)
		} else {
			s.logger.Info("request handled", fields...)
		}
		return nil
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
