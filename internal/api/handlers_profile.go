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
	"github.com/quadboard/quadboard/internal/models"
	"github.com/quadboard/quadboard/internal/validation"
)

// interestsRequest is the PUT /profile/interests payload. An empty
// list clears the user's interests.
type interestsRequest struct {
	Interests []string `json:"interests" validate:"max=20,dive,min=1,max=50"`
}

// GetInterests handles GET /api/v1/profile/interests.
func (h *Handler) GetInterests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	profile, err := h.store.GetProfile(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(w, r, err, "profile")
		return
	}
	respondData(w, r, http.StatusOK, profile, start)
}

// UpdateInterests handles PUT /api/v1/profile/interests.
func (h *Handler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req interestsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := h.store.UpdateInterests(r.Context(), userID, req.Interests); err != nil {
		respondStoreError(w, r, err, "profile")
		return
	}

	profile, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err, "profile")
		return
	}
	respondData(w, r, http.StatusOK, profile, start)
}

// SaveEvent handles POST /api/v1/events/{id}/save.
func (h *Handler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	eventID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.store.SaveEvent(r.Context(), userID, eventID); err != nil {
		respondStoreError(w, r, err, "event")
		return
	}
	respondData(w, r, http.StatusCreated, map[string]string{"saved": eventID}, start)
}

// UnsaveEvent handles DELETE /api/v1/events/{id}/save.
func (h *Handler) UnsaveEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	eventID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.store.UnsaveEvent(r.Context(), userID, eventID); err != nil {
		respondStoreError(w, r, err, "saved event")
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"unsaved": eventID}, start)
}

// SavedEvents handles GET /api/v1/saved.
func (h *Handler) SavedEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	events, err := h.store.SavedEventsForUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respondStoreError(w, r, err, "saved events")
		return
	}
	respondData(w, r, http.StatusOK, events, start)
}

// interactionRequest is the POST /interactions payload.
type interactionRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=view click calendar_add share save"`
	Source  string `json:"source" validate:"omitempty,max=50"`
}

// RecordInteraction handles POST /api/v1/interactions. Interactions
// feed the popularity aggregation, they are not read back by clients.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req interactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	interaction := &models.Interaction{
		UserID:  auth.UserIDFromContext(r.Context()),
		EventID: req.EventID,
		Type:    models.InteractionType(req.Type),
		Source:  req.Source,
	}
	if err := h.store.RecordInteraction(r.Context(), interaction); err != nil {
		respondStoreError(w, r, err, "event")
		return
	}
	respondData(w, r, http.StatusCreated, map[string]string{"recorded": string(interaction.Type)}, start)
}
