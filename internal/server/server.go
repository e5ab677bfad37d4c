// Package server exposes the validation engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/worksheetz/internal/store"
	"github.com/abhisek/worksheetz/internal/validate"
)

// Options configures a Server.
type Options struct {
	// Engine validates batches. Required.
	Engine *validate.Engine

	// Runs records every verdict when set.
	Runs store.RunRepo

	// Registry receives the server's metrics and backs /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry

	// LogOutput receives request logs and warnings. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Server is the HTTP surface of the engine.
type Server struct {
	echo    *echo.Echo
	engine  *validate.Engine
	runs    store.RunRepo
	metrics *Metrics
	logOut  io.Writer
}

// New builds a Server with all routes registered.
func New(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, errors.New("server: engine is required")
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}

	s := &Server{
		echo:    echo.New(),
		engine:  opts.Engine,
		runs:    opts.Runs,
		metrics: NewMetrics(reg),
		logOut:  logOut,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: logOut}))
	e.HTTPErrorHandler = s.handleError

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := e.Group("/v1")
	v1.POST("/validate", s.validate)
	v1.GET("/schemas/:kind", s.schema)
	if s.runs != nil {
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id", s.getRun)
	}
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(s.logOut, "listening on %s (phases: %s)\n", addr, strings.Join(s.engine.Phases(), ", "))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// handleError writes every failure as {"error": "..."}.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}
	if code >= http.StatusInternalServerError {
		req := c.Request()
		fmt.Fprintf(s.logOut, "error: %d %s %s: %v\n", code, req.Method, req.URL.Path, err)
	}
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
