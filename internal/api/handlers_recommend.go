// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/quadboard/quadboard/internal/auth"
	"github.com/quadboard/quadboard/internal/metrics"
	"github.com/quadboard/quadboard/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations: the
// personalized event ranking for the authenticated user.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := auth.UserIDFromContext(r.Context())
	results, err := h.recommender.Recommend(r.Context(), userID)
	if err != nil {
		metrics.RecordRecommendation("error", 0, time.Since(start))
		if errors.Is(err, recommend.ErrUnauthorized) {
			respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "authentication required", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to compute recommendations", err)
		return
	}

	metrics.RecordRecommendation(recommendationOutcome(results), len(results), time.Since(start))
	respondData(w, r, http.StatusOK, results, start)
}

// recommendationOutcome labels a result set for metrics: "cold" for an
// empty list, "fallback" when the interest-overlap path produced it,
// "hybrid" for scored results.
func recommendationOutcome(results []recommend.ScoredEvent) string {
	if len(results) == 0 {
		return "cold"
	}
	if results[0].Reason == "interest_overlap" {
		return "fallback"
	}
	return "hybrid"
}
