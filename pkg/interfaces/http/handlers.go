package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/domain/repositories"
)

// plan runs a planning run; failed runs are returned with status 500
func (s *Server) plan(c echo.Context) error {
	var req PlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	planning, err := req.toPlanningRequest()
	if err != nil {
		return badRequest(err)
	}

	result := s.service.RunPlanning(c.Request().Context(), planning)
	if !result.Succeeded() {
		return c.JSON(http.StatusInternalServerError, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) explode(c echo.Context) error {
	var req ExplodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Quantity.IsNegative() {
		return badRequest(fmt.Errorf("quantity cannot be negative, got %s", req.Quantity))
	}
	maxDepth := s.config.DefaultMaxDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}

	nodes, err := s.service.ExplodeBom(c.Request().Context(), entities.MaterialCode(req.Material), req.Quantity, maxDepth)
	if err != nil {
		return s.internalError("failed to explode BOM", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"requirements": nodes})
}

func (s *Server) kitCheck(c echo.Context) error {
	var req KitCheckRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	requirements, err := req.toNetRequirements()
	if err != nil {
		return badRequest(err)
	}

	kit, err := s.service.CheckKit(c.Request().Context(), requirements)
	if err != nil {
		return s.internalError("failed to check kit", err)
	}
	return c.JSON(http.StatusOK, kit)
}

func (s *Server) atp(c echo.Context) error {
	var query ATPQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}
	req, err := query.toATPRequest()
	if err != nil {
		return badRequest(err)
	}

	result, err := s.service.ComputeATP(c.Request().Context(), req)
	if err != nil {
		return s.internalError("failed to compute ATP", err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) batchATP(c echo.Context) error {
	var batch BatchATPRequest
	if err := bindAndValidate(c, &batch); err != nil {
		return err
	}
	reqs := make([]entities.ATPRequest, 0, len(batch.Requests))
	for i, q := range batch.Requests {
		req, err := q.toATPRequest()
		if err != nil {
			return badRequest(fmt.Errorf("requests[%d]: %w", i, err))
		}
		reqs = append(reqs, req)
	}

	results, err := s.service.ComputeBatchATP(c.Request().Context(), reqs)
	if err != nil {
		return s.internalError("failed to compute ATP batch", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) ctp(c echo.Context) error {
	var query CTPQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}
	req, err := query.toCTPRequest()
	if err != nil {
		return badRequest(err)
	}

	result, err := s.service.ComputeCTP(c.Request().Context(), req)
	if err != nil {
		return s.internalError("failed to compute CTP", err)
	}
	return c.JSON(http.StatusOK, result)
}

// getRun returns the saved net requirements, kit and suggestions of a completed run
func (s *Server) getRun(c echo.Context) error {
	runID := c.Param("id")
	results, err := s.service.GetRun(c.Request().Context(), runID)
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("run %s not found", runID))
	}
	if err != nil {
		return s.internalError("failed to load run", err)
	}
	return c.JSON(http.StatusOK, results)
}

// internalError logs err and hides it from the client
func (s *Server) internalError(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}
