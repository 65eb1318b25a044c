// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package main is the entry point for the Quadboard server.
//
// Quadboard is a self-hosted campus events platform. Students browse
// and save events, record lightweight interaction signals, and get a
// personalized ranking from a hybrid recommendation engine that blends
// content similarity, collaborative clustering, and event popularity.
//
// # Startup order
//
//  1. Configuration: layered defaults, config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Database: DuckDB with schema creation and optional demo seed data
//  4. Recommendation engine: wired to the database-backed data provider
//  5. Supervision tree: popularity refresher worker + HTTP server
//
// # Configuration
//
// Environment variables override config.yaml, which overrides built-in
// defaults. The essentials:
//
//	HTTP_PORT      listen port (default 8080)
//	DUCKDB_PATH    database file (default /data/quadboard.duckdb)
//	AUTH_MODE      jwt (default) or none (development only)
//	JWT_SECRET     32+ character signing secret, required for jwt mode
//	SEED_DEMO_DATA true to load demo users and events on first start
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server stops
// accepting connections and drains in-flight requests, the popularity
// refresher finishes its current pass, then the database is closed.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/quadboard/quadboard/internal/api"
	"github.com/quadboard/quadboard/internal/auth"
	"github.com/quadboard/quadboard/internal/config"
	"github.com/quadboard/quadboard/internal/database"
	"github.com/quadboard/quadboard/internal/logging"
	"github.com/quadboard/quadboard/internal/popularity"
	"github.com/quadboard/quadboard/internal/recommend"
	"github.com/quadboard/quadboard/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("starting quadboard")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing database")
		}
	}()

	engine, err := recommend.NewEngine(&cfg.Recommend,
		logging.Logger().With().Str("component", "recommend").Logger(),
		database.NewRecommendProvider(db))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build recommendation engine")
	}

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode == "jwt" {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to set up JWT authentication")
		}
	} else {
		logging.Warn().Msg("authentication disabled, trusting X-User-ID header")
	}

	handler := api.NewHandler(db, engine, cfg.API)
	router := api.NewRouter(handler, auth.NewMiddleware(&cfg.Security, jwtManager), &cfg.Security)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.Timeout))

	if cfg.Popularity.Enabled {
		refresher, err := popularity.NewRefresher(db, cfg.Popularity.RefreshInterval)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to build popularity refresher")
		}
		tree.AddWorker(refresher)
	} else {
		logging.Info().Msg("popularity refresher disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", addr).Msg("serving")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service did not stop cleanly")
		}
	}
	logging.Info().Msg("shutdown complete")
}
