// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package api provides the HTTP surface of the platform: a Chi router,
// the middleware stack (request IDs, CORS, rate limiting, metrics,
// authentication), and the JSON handlers for events, saved events,
// interests, interactions, and recommendations.
//
// All responses use the models.APIResponse envelope. Handlers depend on
// small Store and Recommender interfaces so they can be tested with
// httptest and in-memory stubs.
package api
