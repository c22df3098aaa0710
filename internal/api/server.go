// Package api exposes evaluation runs over HTTP for dashboards and
// report tooling.
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/relevancelab/searcheval/internal/apperr"
	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/dataset"
	"github.com/relevancelab/searcheval/internal/store"
	"github.com/relevancelab/searcheval/pkg/middleware"
)

type Config struct {
	Addr string
}

type Server struct {
	echo   *echo.Echo
	cfg    Config
	client backend.SearchClient
	ds     *dataset.Dataset
	runs   store.RunStore
}

func New(cfg Config, client backend.SearchClient, ds *dataset.Dataset, runs store.RunStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	e.Use(middleware.Logger())

	s := &Server{echo: e, cfg: cfg, client: client, ds: ds, runs: runs}

	e.GET("/healthz", s.health)
	v1 := e.Group("/api/v1")
	v1.POST("/evaluations", s.createEvaluation)
	v1.GET("/runs", s.listRuns)
	v1.GET("/runs/:id", s.getRun)

	return s
}

func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
