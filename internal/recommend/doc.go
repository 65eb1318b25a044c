// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package recommend implements the hybrid recommendation engine for campus events.
//
// # Architecture
//
// The engine combines three signals into a single ranked list:
//
//   - Content: cosine similarity between a user's interest vector and an
//     event's category vector
//   - Collaborative: saves by users in the same k-means cluster as the requester
//   - Popularity: aggregate engagement counters, max-normalized
//
// Combined score = 0.45*content + 0.40*collaborative + 0.15*popularity.
// The weights are named policy constants in Config, not inline literals, so
// tuning the blend is a one-line change.
//
// # Design Principles
//
//   - Deterministic: k-means seeds from input order, no RNG anywhere
//   - Stateless: every request recomputes clusters and scores from the current
//     snapshot; nothing is cached or persisted across requests
//   - Degrading, not failing: sparse data (cold users, empty candidate sets,
//     zero normalization denominators, unparseable dates) produces designed
//     defaults, never errors
//
// # Cold Start
//
// A requester with no declared interests and no saved-event signal receives an
// empty list immediately. A requester with declared interests whose scoring
// produces nothing falls back to a raw-tag-overlap query for future events.
//
// # Dependencies
//
// This package has no dependencies on other internal packages. The
// DataProvider interface allows integration with the database package without
// creating circular imports.
package recommend
