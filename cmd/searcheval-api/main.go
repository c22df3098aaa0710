package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relevancelab/searcheval/internal/api"
	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/dataset"
	"github.com/relevancelab/searcheval/internal/store"
	"github.com/relevancelab/searcheval/pkg/config/env"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env"); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := backend.NewESClient(backend.ESConfig{
		Addresses: cfg.EsAddresses,
		Username:  cfg.EsUser,
		Password:  cfg.EsPassword,
	})
	if err != nil {
		slog.Error("Failed to create search client", "error", err)
		os.Exit(1)
	}

	ds, err := dataset.LoadFromFile(cfg.DatasetPath)
	if err != nil {
		slog.Error("Failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}

	runs, err := newRunStore(cfg)
	if err != nil {
		slog.Error("Failed to create run store", "error", err)
		os.Exit(1)
	}
	defer runs.Close()

	s := api.New(api.Config{Addr: cfg.Addr}, client, ds, runs)

	go func() {
		if err := s.Start(); err != nil {
			slog.Info("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutdown started, cleaning up resources...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		slog.Error("Failed to shut down server", "error", err)
		os.Exit(1)
	}
}

func newRunStore(cfg appConfig) (store.RunStore, error) {
	if cfg.PgConnStr == "" {
		slog.Info("PG_CONN_STR not set, keeping runs in memory")
		return store.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.NewPGStore(ctx, cfg.PgConnStr)
}
