// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quadboard/quadboard/internal/auth"
	"github.com/quadboard/quadboard/internal/config"
)

// Router assembles the HTTP surface from handlers, authentication, and
// the security config.
type Router struct {
	handler  *Handler
	auth     *auth.Middleware
	security *config.SecurityConfig
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, security *config.SecurityConfig) *Router {
	return &Router{
		handler:  handler,
		auth:     authMiddleware,
		security: security,
	}
}

// Setup builds the Chi handler tree.
//
// /health and /metrics are unauthenticated and exempt from rate
// limiting so probes and scrapers keep working under load. Everything
// under /api/v1 requires authentication.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger())
	r.Use(CORS(rt.security))

	r.Get("/health", rt.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(rt.security))
		r.Use(Metrics())
		r.Use(rt.auth.Authenticate)

		r.Get("/events", rt.handler.ListEvents)
		r.Post("/events", rt.handler.CreateEvent)
		r.Get("/events/popular", rt.handler.PopularEvents)
		r.Get("/events/trending", rt.handler.TrendingEvents)
		r.Get("/events/{id}", rt.handler.GetEvent)
		r.Put("/events/{id}", rt.handler.UpdateEvent)
		r.Delete("/events/{id}", rt.handler.DeleteEvent)

		r.Post("/events/{id}/save", rt.handler.SaveEvent)
		r.Delete("/events/{id}/save", rt.handler.UnsaveEvent)
		r.Get("/saved", rt.handler.SavedEvents)

		r.Get("/recommendations", rt.handler.Recommendations)

		r.Get("/profile/interests", rt.handler.GetInterests)
		r.Put("/profile/interests", rt.handler.UpdateInterests)

		r.Post("/interactions", rt.handler.RecordInteraction)

		r.Post("/popularity/refresh", rt.handler.RefreshPopularity)
	})

	return r
}
