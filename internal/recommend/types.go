// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized is returned when a recommendation is requested without a
// resolvable user identity. No partial computation is attempted.
var ErrUnauthorized = errors.New("recommend: no authenticated user")

// Event is the engine's view of an event. It is a read-only snapshot handed
// in by the DataProvider; optional fields are normalized to empty values at
// ingestion so scoring logic never deals with absent fields.
type Event struct {
	// ID is the event identifier.
	ID string `json:"id"`

	// Title is the event title.
	Title string `json:"title"`

	// Description is the event description.
	Description string `json:"description"`

	// Location is the venue.
	Location string `json:"location"`

	// Organizer is the hosting club or organizer name.
	Organizer string `json:"organizer"`

	// Tags is the raw tag list as stored upstream. May be empty, never nil
	// after ingestion.
	Tags []string `json:"tags"`

	// StartDate is the RFC 3339 start timestamp as stored upstream. Events
	// whose start date is missing or unparseable are excluded from candidate
	// scoring rather than scored as garbage.
	StartDate string `json:"start_date"`

	// EndDate is the RFC 3339 end timestamp, possibly empty.
	EndDate string `json:"end_date,omitempty"`

	// ImageURL is the event image, possibly empty.
	ImageURL string `json:"image_url,omitempty"`
}

// StartTime parses the event's start date. The boolean reports whether the
// date resolved to a usable timestamp.
func (e *Event) StartTime() (time.Time, bool) {
	if e.StartDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, e.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ScoredEvent is an event with its combined recommendation score and a
// per-channel breakdown.
type ScoredEvent struct {
	// Event is the recommended event.
	Event Event `json:"event"`

	// Score is the combined score (0-1, higher is better). Fallback results
	// carry a zero score: they were selected by tag overlap, not scored.
	Score float64 `json:"score"`

	// Scores breaks the combined score down by channel (content,
	// collaborative, popularity). Empty for fallback results.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Reason identifies the path that produced this result: "hybrid" for the
	// scored pipeline, "interest_overlap" for the cold-start fallback.
	Reason string `json:"reason,omitempty"`
}

// UserInterests pairs a user with their declared interest tags. The provider
// returns these in a stable order; clustering determinism depends on it.
type UserInterests struct {
	UserID    string
	Interests []string
}

// SavedEvent is a user<->event saved relation.
type SavedEvent struct {
	UserID  string
	EventID string
}

// DataProvider defines the read-only data access the engine needs. It is
// typically implemented by the database layer. All methods must honor
// context cancellation; any error is terminal for the request (the engine
// does not retry a best-effort read path).
type DataProvider interface {
	// GetUserInterests returns the declared interest tags for one user.
	// An unknown user yields an empty slice, not an error.
	GetUserInterests(ctx context.Context, userID string) ([]string, error)

	// GetAllUserInterests returns every user's declared interest tags in a
	// stable order.
	GetAllUserInterests(ctx context.Context) ([]UserInterests, error)

	// GetSavedEvents returns all saved-event relations.
	GetSavedEvents(ctx context.Context) ([]SavedEvent, error)

	// GetEvents returns all events visible to recommendations.
	GetEvents(ctx context.Context) ([]Event, error)

	// GetPopularityScores returns raw popularity counters keyed by event ID.
	GetPopularityScores(ctx context.Context) (map[string]float64, error)

	// GetEventsByRawTags returns events whose raw tags overlap the given set,
	// starting at or after the given time, ordered by start time ascending,
	// capped at limit. Used only by the cold-start fallback.
	GetEventsByRawTags(ctx context.Context, tags []string, after time.Time, limit int) ([]Event, error)
}
