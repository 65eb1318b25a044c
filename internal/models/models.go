// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

// Package models defines the shared domain types for Quadboard: users,
// events, saved-event relations, interactions, and the API response
// envelope. Types here carry no behavior beyond serialization helpers; all
// business logic lives in the packages that consume them.
package models

import "time"

// User is a registered campus user.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile holds a user's declared interest tags. Interests are free-text
// tags; the recommendation engine maps them onto its canonical categories.
type Profile struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Interests []string  `json:"interests" db:"interests"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EventStatus is an event's moderation state. Only approved events are
// listed, ranked, or counted toward popularity.
type EventStatus string

// Event moderation states.
const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

// Valid reports whether s is a known moderation state.
func (s EventStatus) Valid() bool {
	switch s {
	case EventPending, EventApproved, EventRejected:
		return true
	}
	return false
}

// Event is a campus event as stored.
type Event struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Location    string      `json:"location" db:"location"`
	Organizer   string      `json:"organizer" db:"organizer"`
	Tags        []string    `json:"tags" db:"tags"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     *time.Time  `json:"end_date,omitempty" db:"end_date"`
	ImageURL    string      `json:"image_url,omitempty" db:"image_url"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedBy   string      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// SavedEvent links a user to an event they bookmarked.
type SavedEvent struct {
	UserID    string    `json:"user_id" db:"user_id"`
	EventID   string    `json:"event_id" db:"event_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InteractionType enumerates the engagement signals that feed popularity.
type InteractionType string

// Interaction types, in ascending order of engagement strength.
const (
	InteractionView        InteractionType = "view"
	InteractionClick       InteractionType = "click"
	InteractionCalendarAdd InteractionType = "calendar_add"
	InteractionShare       InteractionType = "share"
	InteractionSave        InteractionType = "save"
)

// InteractionWeights maps each interaction type to its contribution to an
// event's popularity counter. Stronger engagement weighs more.
var InteractionWeights = map[InteractionType]float64{
	InteractionView:        1,
	InteractionClick:       2,
	InteractionCalendarAdd: 3,
	InteractionShare:       4,
	InteractionSave:        5,
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	_, ok := InteractionWeights[t]
	return ok
}

// Interaction is one recorded engagement signal. Source tells which
// surface produced it (web, mobile, digest); it is informational only.
type Interaction struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	EventID   string          `json:"event_id" db:"event_id"`
	Type      InteractionType `json:"type" db:"type"`
	Source    string          `json:"source,omitempty" db:"source"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// PopularityScore is an event's aggregated engagement counter as last
// computed by the popularity refresher.
type PopularityScore struct {
	EventID    string    `json:"event_id" db:"event_id"`
	Score      float64   `json:"score" db:"score"`
	ComputedAt time.Time `json:"computed_at" db:"computed_at"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	// After keeps events starting at or after this time.
	After *time.Time

	// Before keeps events starting before this time.
	Before *time.Time

	// Tags keeps events whose tags overlap this set.
	Tags []string

	// Search is a case-insensitive substring match over title, description,
	// and organizer.
	Search string

	// Status narrows to one moderation state. Empty means approved only;
	// "all" disables the status filter.
	Status string

	// Limit caps the result count. Zero means the server default.
	Limit int

	// Offset skips the first N results, for pagination.
	Offset int
}
