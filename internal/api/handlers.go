// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quadboard/quadboard/internal/config"
	"github.com/quadboard/quadboard/internal/database"
	"github.com/quadboard/quadboard/internal/models"
	"github.com/quadboard/quadboard/internal/recommend"
)

// Store is the persistence surface the handlers need. Satisfied by
// *database.DB.
type Store interface {
	Ping(ctx context.Context) error

	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	PopularEvents(ctx context.Context, after time.Time, limit int) ([]models.Event, []float64, error)
	TrendingEvents(ctx context.Context, window time.Duration, limit int) ([]models.Event, []float64, error)
	RefreshPopularity(ctx context.Context) (int, error)

	SaveEvent(ctx context.Context, userID, eventID string) error
	UnsaveEvent(ctx context.Context, userID, eventID string) error
	SavedEventsForUser(ctx context.Context, userID string) ([]models.Event, error)

	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateInterests(ctx context.Context, userID string, interests []string) error

	RecordInteraction(ctx context.Context, interaction *models.Interaction) error
}

// Recommender produces personalized event rankings. Satisfied by
// *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, userID string) ([]recommend.ScoredEvent, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store       Store
	recommender Recommender
	api         config.APIConfig
	startedAt   time.Time
}

// NewHandler creates a Handler. A zero-valued api config falls back to
// sane paging defaults.
func NewHandler(store Store, recommender Recommender, apiCfg config.APIConfig) *Handler {
	if apiCfg.DefaultPageSize <= 0 {
		apiCfg.DefaultPageSize = 20
	}
	if apiCfg.MaxPageSize <= 0 {
		apiCfg.MaxPageSize = 100
	}
	return &Handler{
		store:       store,
		recommender: recommender,
		api:         apiCfg,
		startedAt:   time.Now().UTC(),
	}
}

// Health reports service liveness and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "healthy"
	httpStatus := http.StatusOK
	checks := map[string]string{"database": "ok"}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}

	respondData(w, r, httpStatus, map[string]interface{}{
		"status":         status,
		"checks":         checks,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}, start)
}

// respondStoreError maps storage errors to API error envelopes.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
	case errors.Is(err, database.ErrAlreadySaved):
		respondError(w, r, http.StatusConflict, "CONFLICT", resource+" already saved", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}
