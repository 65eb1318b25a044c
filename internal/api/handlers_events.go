// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quadboard/quadboard/internal/auth"
	"github.com/quadboard/quadboard/internal/metrics"
	"github.com/quadboard/quadboard/internal/models"
	"github.com/quadboard/quadboard/internal/validation"
)

// eventRequest is the create/update payload for an event.
type eventRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Location    string   `json:"location" validate:"max=200"`
	Organizer   string   `json:"organizer" validate:"max=200"`
	Tags        []string `json:"tags" validate:"required,min=1,max=20,dive,min=1,max=50"`
	StartDate   string   `json:"start_date" validate:"required"`
	EndDate     string   `json:"end_date"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Status      string   `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// toModel converts the payload to a models.Event, parsing timestamps.
func (req *eventRequest) toModel() (*models.Event, string) {
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, "start_date must be an RFC3339 timestamp"
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
		StartDate:   startDate,
		ImageURL:    req.ImageURL,
		Status:      models.EventStatus(req.Status),
	}

	if req.EndDate != "" {
		endDate, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return nil, "end_date must be an RFC3339 timestamp"
		}
		if endDate.Before(startDate) {
			return nil, "end_date must not be before start_date"
		}
		event.EndDate = &endDate
	}

	return event, ""
}

// decodeEventRequest handles the shared decode+validate+convert steps
// of create and update. Returns nil when a response was already sent.
func (h *Handler) decodeEventRequest(w http.ResponseWriter, r *http.Request) *models.Event {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", err)
		return nil
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return nil
	}

	event, problem := req.toModel()
	if problem != "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", problem, nil)
		return nil
	}
	return event
}

// CreateEvent handles POST /api/v1/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	event := h.decodeEventRequest(w, r)
	if event == nil {
		return
	}
	event.CreatedBy = auth.UserIDFromContext(r.Context())

	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		respondStoreError(w, r, err, "event")
		return
	}
	respondData(w, r, http.StatusCreated, event, start)
}

// UpdateEvent handles PUT /api/v1/events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	event := h.decodeEventRequest(w, r)
	if event == nil {
		return
	}
	event.ID = chi.URLParam(r, "id")

	if err := h.store.UpdateEvent(r.Context(), event); err != nil {
		respondStoreError(w, r, err, "event")
		return
	}
	respondData(w, r, http.StatusOK, event, start)
}

// DeleteEvent handles DELETE /api/v1/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	eventID := chi.URLParam(r, "id")
	if err := h.store.DeleteEvent(r.Context(), eventID); err != nil {
		respondStoreError(w, r, err, "event")
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"deleted": eventID}, start)
}

// GetEvent handles GET /api/v1/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	event, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "event")
		return
	}
	respondData(w, r, http.StatusOK, event, start)
}

// ListEvents handles GET /api/v1/events with filtering and pagination.
//
// Query parameters: limit, offset, after, before (RFC3339), tags
// (comma-separated, case-insensitive), q (substring search).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter, problem := h.eventFilterFromQuery(r)
	if problem != "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", problem, nil)
		return
	}

	events, total, err := h.store.ListEvents(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, err, "events")
		return
	}

	respondData(w, r, http.StatusOK, &models.PaginatedData{
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Results: events,
	}, start)
}

// eventFilterFromQuery builds an EventFilter from query parameters,
// clamping the page size to the configured maximum.
func (h *Handler) eventFilterFromQuery(r *http.Request) (models.EventFilter, string) {
	var filter models.EventFilter

	limit, err := getIntParam(r, "limit", h.api.DefaultPageSize)
	if err != nil {
		return filter, err.Error()
	}
	if limit < 1 {
		return filter, "limit must be at least 1"
	}
	if limit > h.api.MaxPageSize {
		limit = h.api.MaxPageSize
	}

	offset, err := getIntParam(r, "offset", 0)
	if err != nil {
		return filter, err.Error()
	}
	if offset < 0 {
		return filter, "offset must not be negative"
	}

	after, err := getTimeParam(r, "after")
	if err != nil {
		return filter, err.Error()
	}
	before, err := getTimeParam(r, "before")
	if err != nil {
		return filter, err.Error()
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != "all" && !models.EventStatus(status).Valid() {
		return filter, "status must be pending, approved, rejected or all"
	}

	filter.Limit = limit
	filter.Offset = offset
	filter.After = after
	filter.Before = before
	filter.Tags = getListParam(r, "tags")
	filter.Search = r.URL.Query().Get("q")
	filter.Status = status
	return filter, ""
}

// popularEvent pairs an event with its aggregated engagement score.
type popularEvent struct {
	models.Event
	Score float64 `json:"score"`
}

// PopularEvents handles GET /api/v1/events/popular: upcoming events
// ordered by aggregated interaction score.
func (h *Handler) PopularEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", h.api.DefaultPageSize)
	if err != nil || limit < 1 {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer", nil)
		return
	}
	if limit > h.api.MaxPageSize {
		limit = h.api.MaxPageSize
	}

	events, scores, err := h.store.PopularEvents(r.Context(), time.Now().UTC(), limit)
	if err != nil {
		respondStoreError(w, r, err, "events")
		return
	}

	results := make([]popularEvent, len(events))
	for i := range events {
		results[i] = popularEvent{Event: events[i], Score: scores[i]}
	}
	respondData(w, r, http.StatusOK, results, start)
}

// Trending window bounds. All-time popularity lives under /events/popular;
// trending only ever looks at recent engagement.
const (
	defaultTrendingWindow = 24 * time.Hour
	maxTrendingWindow     = 7 * 24 * time.Hour
)

// TrendingEvents handles GET /api/v1/events/trending: upcoming events
// ranked by engagement inside a trailing window (default 24h).
//
// Query parameters: limit, window (Go duration such as 6h or 72h).
func (h *Handler) TrendingEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", h.api.DefaultPageSize)
	if err != nil || limit < 1 {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer", nil)
		return
	}
	if limit > h.api.MaxPageSize {
		limit = h.api.MaxPageSize
	}

	window := defaultTrendingWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "window must be a positive duration such as 24h", nil)
			return
		}
		window = parsed
	}
	if window > maxTrendingWindow {
		window = maxTrendingWindow
	}

	events, scores, err := h.store.TrendingEvents(r.Context(), window, limit)
	if err != nil {
		respondStoreError(w, r, err, "events")
		return
	}

	results := make([]popularEvent, len(events))
	for i := range events {
		results[i] = popularEvent{Event: events[i], Score: scores[i]}
	}
	respondData(w, r, http.StatusOK, results, start)
}

// RefreshPopularity handles POST /api/v1/popularity/refresh: an
// on-demand rebuild of the popularity counters, outside the periodic
// background schedule.
func (h *Handler) RefreshPopularity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	refreshed, err := h.store.RefreshPopularity(r.Context())
	metrics.RecordPopularityRefresh(time.Since(start), err)
	if err != nil {
		respondStoreError(w, r, err, "popularity")
		return
	}
	respondData(w, r, http.StatusOK, map[string]int{"refreshed": refreshed}, start)
}
