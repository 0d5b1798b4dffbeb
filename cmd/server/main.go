// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

// Command server runs the Reelscope recommendation API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelscope/reelscope/internal/api"
	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/history"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/recommend"
	"github.com/reelscope/reelscope/internal/tmdb"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("starting reelscope")

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	client := tmdb.NewClient(tmdb.ClientConfig{
		BaseURL:           cfg.TMDB.BaseURL,
		APIKey:            cfg.TMDB.APIKey,
		Timeout:           cfg.TMDB.Timeout,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
	})
	gateway := tmdb.NewBreakerClient(client)

	engineCfg := recommend.DefaultConfig()
	engineCfg.Cache.TTL = cfg.Recommend.CacheTTL
	engineCfg.Cache.Enabled = cfg.Recommend.CacheTTL > 0
	engineCfg.Seed = cfg.Recommend.Seed

	engine, err := recommend.NewEngine(engineCfg, store, gateway)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	handler := api.NewHandler(engine, gateway, version)
	router := api.NewRouter(handler, api.RouterConfig{})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logging.Info().Msg("shutdown complete")
	return nil
}

// buildStore selects the watch-history backend. Mongo when configured,
// otherwise the in-memory store for development.
func buildStore(cfg *config.Config) (history.Store, func(), error) {
	if !cfg.Mongo.Enabled {
		logging.Warn().Msg("mongo disabled, using in-memory watch history")
		return history.NewMemoryStore(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	db, err := history.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			logging.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}

	logging.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	return history.NewMongoStore(db), cleanup, nil
}
