package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/worksheetz/internal/store"
	"github.com/abhisek/worksheetz/internal/task"
	"github.com/abhisek/worksheetz/internal/validate"
)

// HeaderRunID carries the run log identifier of a recorded verdict.
const HeaderRunID = "X-Run-ID"

// validateRequest is the body of POST /v1/validate.
type validateRequest struct {
	Subject string            `json:"subject"`
	Grade   int               `json:"grade"`
	Tasks   []json.RawMessage `json:"tasks"`
}

func (s *Server) validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	subject, err := validate.ParseSubject(req.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := s.engine.Validate(req.Tasks, subject, req.Grade)
	if err != nil {
		if errors.Is(err, validate.ErrUnsupportedGrade) || errors.Is(err, validate.ErrUnknownSubject) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	s.metrics.Observe(subject, len(req.Tasks), res)

	if s.runs != nil {
		run, err := s.runs.Append(c.Request().Context(), store.RunRecord{
			Subject:   subject,
			Grade:     req.Grade,
			TaskCount: len(req.Tasks),
			Result:    res,
		})
		if err != nil {
			fmt.Fprintf(s.logOut, "warning: record run: %v\n", err)
		} else {
			c.Response().Header().Set(HeaderRunID, run.RunID)
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) schema(c echo.Context) error {
	shape := task.Shape(task.Kind(c.Param("kind")))
	if shape == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown task type %q", c.Param("kind")))
	}
	return c.JSON(http.StatusOK, shape)
}

// runView is the JSON form of a recorded run.
type runView struct {
	RunID        string           `json:"runId"`
	CreatedAt    time.Time        `json:"createdAt"`
	Subject      string           `json:"subject"`
	Grade        int              `json:"grade"`
	TaskCount    int              `json:"taskCount"`
	Valid        bool             `json:"valid"`
	ErrorCount   int              `json:"errorCount"`
	WarningCount int              `json:"warningCount"`
	Result       *validate.Result `json:"result,omitempty"`
}

func newRunView(r *store.Run, withResult bool) runView {
	v := runView{
		RunID:        r.RunID,
		CreatedAt:    r.CreatedAt,
		Subject:      string(r.Subject),
		Grade:        r.Grade,
		TaskCount:    r.TaskCount,
		Valid:        r.Valid,
		ErrorCount:   r.ErrorCount,
		WarningCount: r.WarningCount,
	}
	if withResult {
		v.Result = r.Result()
	}
	return v
}

func (s *Server) listRuns(c echo.Context) error {
	opts := store.QueryOpts{Limit: 20}
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		opts.Limit = n
	}
	if sub := c.QueryParam("subject"); sub != "" {
		subject, err := validate.ParseSubject(sub)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		opts.Subject = subject
	}
	opts.InvalidOnly = c.QueryParam("invalid") == "true"

	runs, err := s.runs.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	out := make([]runView, len(runs))
	for i := range runs {
		out[i] = newRunView(&runs[i], false)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getRun(c echo.Context) error {
	run, err := s.runs.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if run == nil {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	return c.JSON(http.StatusOK, newRunView(run, true))
}
