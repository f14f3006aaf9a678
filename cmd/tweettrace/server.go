package main

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"

	"github.com/tweettrace/tweettrace/trace"
	"github.com/tweettrace/tweettrace/trace/engine"
)

// Thin HTTP boundary for presentation collaborators: accepts a post
// reference, returns the structured campaign report. All rendering and export
// concerns live on the caller's side.
type Server struct {
	logger *slog.Logger
	engine *engine.Engine
	echo   *echo.Echo
}

func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))

	srv := &Server{
		logger: logger,
		engine: eng,
		echo:   e,
	}

	e.GET("/_health", srv.HandleHealthCheck)
	e.POST("/analyze", srv.HandleAnalyze)
	return srv
}

func (s *Server) RunAPI(bind string) error {
	s.logger.Info("starting analysis API", "bind", bind)
	srv := &http.Server{
		Handler:        s.echo,
		Addr:           bind,
		WriteTimeout:   5 * time.Minute,
		ReadTimeout:    time.Minute,
		MaxHeaderBytes: 1 * (1024 * 1024),
	}
	return srv.ListenAndServe()
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (s *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, healthStatus{Status: "ok", Service: "tweettrace"})
}

type analyzeRequest struct {
	PostRef string `json:"post_ref"`
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) HandleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Error: "expected JSON body with post_ref"})
	}

	report, err := s.engine.Analyze(c.Request().Context(), req.PostRef)
	if err != nil {
		var inputErr *trace.InputError
		if errors.As(err, &inputErr) {
			return c.JSON(http.StatusBadRequest, apiError{Error: inputErr.Error()})
		}
		var srcErr *trace.SourceError
		if errors.As(err, &srcErr) {
			s.logger.Error("post source failure", "err", srcErr)
			return c.JSON(http.StatusBadGateway, apiError{Error: srcErr.Error()})
		}
		s.logger.Error("analysis failed", "err", err)
		return c.JSON(http.StatusInternalServerError, apiError{Error: "analysis failed"})
	}
	return c.JSON(http.StatusOK, report)
}
