// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package popularity hosts the background job that keeps the
// popularity_scores table in sync with recorded interactions.
//
// The refresher runs as a supervised service: it recomputes the
// aggregate scores once at startup and then on a fixed interval, so
// the recommendation engine always reads reasonably fresh popularity
// data without paying the aggregation cost per request.
package popularity

import (
	"context"
	"fmt"
	"time"

	"github.com/quadboard/quadboard/internal/logging"
	"github.com/quadboard/quadboard/internal/metrics"
	"github.com/rs/zerolog"
)

// DefaultRefreshInterval is used when no interval is configured.
const DefaultRefreshInterval = 5 * time.Minute

// refreshTimeout bounds a single aggregation run.
const refreshTimeout = 30 * time.Second

// Store provides the aggregation the refresher drives. Satisfied by
// *database.DB; kept minimal so tests can stub it.
type Store interface {
	RefreshPopularity(ctx context.Context) (int, error)
}

// Refresher periodically recomputes popularity scores from interactions.
//
// It implements suture.Service (Serve + String) and is meant to run
// under the application supervision tree.
type Refresher struct {
	store    Store
	interval time.Duration
	logger   zerolog.Logger
}

// NewRefresher creates a refresher for the given store. A non-positive
// interval falls back to DefaultRefreshInterval.
func NewRefresher(store Store, interval time.Duration) (*Refresher, error) {
	if store == nil {
		return nil, fmt.Errorf("popularity refresher requires a store")
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		store:    store,
		interval: interval,
		logger:   logging.Logger().With().Str("service", "popularity").Logger(),
	}, nil
}

// Serve implements suture.Service.
//
// It refreshes once immediately, then on every interval tick until the
// context is canceled. Individual refresh failures are logged and
// recorded but do not stop the service; the next tick retries.
func (r *Refresher) Serve(ctx context.Context) error {
	r.logger.Info().Dur("interval", r.interval).Msg("popularity refresher started")

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("popularity refresher stopping")
			return ctx.Err()
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// refresh runs a single bounded aggregation pass.
func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	rows, err := r.store.RefreshPopularity(runCtx)
	elapsed := time.Since(start)
	metrics.RecordPopularityRefresh(elapsed, err)

	if err != nil {
		r.logger.Error().Err(err).Dur("elapsed", elapsed).Msg("popularity refresh failed")
		return
	}
	r.logger.Debug().Int("events", rows).Dur("elapsed", elapsed).Msg("popularity refreshed")
}

// String implements fmt.Stringer for supervisor logging.
func (r *Refresher) String() string {
	return "popularity-refresher"
}
