// Package server exposes the simulator over HTTP.
//
//	POST /api/v1/simulations   run one simulation
//	GET  /health               liveness
//	GET  /metrics              prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/contactkeval/range-touch/internal/config"
	"github.com/contactkeval/range-touch/internal/logger"
	"github.com/contactkeval/range-touch/internal/report"
	"github.com/contactkeval/range-touch/internal/simulation"
)

// SimulationRequest is the body of POST /api/v1/simulations.
type SimulationRequest struct {
	simulation.Params
	Seed        int64 `json:"seed,omitempty"`         // 0 = server default
	SamplePaths *int  `json:"sample_paths,omitempty"` // paths returned, 0 = all
}

// SimulationResponse carries the summary and a sample of paths for charts.
type SimulationResponse struct {
	Summary *report.Summary   `json:"summary"`
	Paths   []simulation.Path `json:"paths"`
}

type Server struct {
	cfg     *config.Config
	metrics *Metrics
	router  *gin.Engine
}

func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		metrics: NewMetrics(),
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery(), s.accessLog())

	s.router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1/simulations")
	{
		v1.POST("", s.runSimulation)
	}
	return s
}

// Handler returns the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting REST server on %s", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Infof("shutting down REST server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) runSimulation(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RunsTotal.WithLabelValues(outcomeInvalid).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.checkLimits(req.Params); err != nil {
		s.metrics.RunsTotal.WithLabelValues(outcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engineCfg := s.cfg.Engine
	if req.Seed != 0 {
		engineCfg.Seed = req.Seed
	}
	sample := s.cfg.Report.SamplePaths
	if req.SamplePaths != nil && *req.SamplePaths >= 0 {
		sample = *req.SamplePaths
	}

	start := time.Now()
	res, err := simulation.NewEngine(engineCfg).Run(c.Request.Context(), req.Params)
	switch {
	case errors.Is(err, simulation.ErrInvalidParams):
		s.metrics.RunsTotal.WithLabelValues(outcomeInvalid).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.metrics.RunsTotal.WithLabelValues(outcomeFailed).Inc()
		logger.Errorf("simulation request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation could not be completed"})
		return
	}

	s.metrics.RunsTotal.WithLabelValues(outcomeOK).Inc()
	s.metrics.PathsTotal.Add(float64(res.TotalPaths))
	s.metrics.RunDuration.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, SimulationResponse{
		Summary: report.NewSummary(res, s.cfg.Report.Confidence),
		Paths:   res.SamplePaths(sample),
	})
}

// checkLimits keeps a single request from tying up the server.
func (s *Server) checkLimits(p simulation.Params) error {
	if p.Iterations > s.cfg.Server.MaxIterations {
		return fmt.Errorf("iterations %d exceeds the limit of %d", p.Iterations, s.cfg.Server.MaxIterations)
	}
	if p.Days > s.cfg.Server.MaxDays {
		return fmt.Errorf("days %d exceeds the limit of %d", p.Days, s.cfg.Server.MaxDays)
	}
	return nil
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		if logger.Enabled(logger.Debug) {
			logger.L().Debug("http request",
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			)
		}
	}
}
