// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/quadboard/quadboard/internal/models"
	"github.com/quadboard/quadboard/internal/recommend"
)

// RecommendProvider adapts the database to the recommendation engine's
// read-only DataProvider interface. The engine works on plain snapshots, so
// this adapter only converts storage rows to engine types.
type RecommendProvider struct {
	db *DB
}

// NewRecommendProvider creates the engine's data provider.
func NewRecommendProvider(db *DB) *RecommendProvider {
	return &RecommendProvider{db: db}
}

var _ recommend.DataProvider = (*RecommendProvider)(nil)

// GetUserInterests returns one user's declared interest tags. Unknown users
// yield an empty slice.
func (p *RecommendProvider) GetUserInterests(ctx context.Context, userID string) ([]string, error) {
	profile, err := p.db.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.Interests, nil
}

// GetAllUserInterests returns every user's interests ordered by user ID.
func (p *RecommendProvider) GetAllUserInterests(ctx context.Context) ([]recommend.UserInterests, error) {
	profiles, err := p.db.AllProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]recommend.UserInterests, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, recommend.UserInterests{
			UserID:    profile.UserID,
			Interests: profile.Interests,
		})
	}
	return out, nil
}

// GetSavedEvents returns all bookmark relations.
func (p *RecommendProvider) GetSavedEvents(ctx context.Context) ([]recommend.SavedEvent, error) {
	relations, err := p.db.AllSavedEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]recommend.SavedEvent, 0, len(relations))
	for _, rel := range relations {
		out = append(out, recommend.SavedEvent{UserID: rel.UserID, EventID: rel.EventID})
	}
	return out, nil
}

// GetEvents returns all events in stable order.
func (p *RecommendProvider) GetEvents(ctx context.Context) ([]recommend.Event, error) {
	events, _, err := p.db.ListEvents(ctx, models.EventFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]recommend.Event, 0, len(events))
	for i := range events {
		out = append(out, toRecommendEvent(&events[i]))
	}
	return out, nil
}

// GetPopularityScores returns raw popularity counters keyed by event ID.
func (p *RecommendProvider) GetPopularityScores(ctx context.Context) (map[string]float64, error) {
	return p.db.PopularityScores(ctx)
}

// GetEventsByRawTags returns future events whose normalized tags overlap the
// given set, soonest first, capped at limit.
func (p *RecommendProvider) GetEventsByRawTags(ctx context.Context, tags []string, after time.Time, limit int) ([]recommend.Event, error) {
	if len(tags) == 0 || limit < 1 {
		return []recommend.Event{}, nil
	}

	placeholders := make([]string, len(tags))
	args := make([]interface{}, 0, len(tags)+2)
	for i, tag := range tags {
		placeholders[i] = "?"
		args = append(args, strings.ToLower(strings.TrimSpace(tag)))
	}
	args = append(args, after, string(models.EventApproved), limit)

	query := `SELECT DISTINCT ` + prefixColumns("e.", eventColumns) + `
		FROM events e
		JOIN event_tags t ON t.event_id = e.id
		WHERE t.tag IN (` + strings.Join(placeholders, ", ") + `)
		  AND e.start_date >= ?
		  AND e.status = ?
		ORDER BY e.start_date ASC, e.id ASC
		LIMIT ?`

	out := make([]recommend.Event, 0, limit)
	err := p.db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		event, err := scanEvent(rows)
		if err != nil {
			return err
		}
		out = append(out, toRecommendEvent(event))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("events by raw tags: %w", err)
	}
	return out, nil
}

// toRecommendEvent converts a storage event to the engine's snapshot type.
// Timestamps become RFC 3339 strings, the engine's wire format.
func toRecommendEvent(event *models.Event) recommend.Event {
	out := recommend.Event{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Organizer:   event.Organizer,
		Tags:        event.Tags,
		StartDate:   event.StartDate.UTC().Format(time.RFC3339),
		ImageURL:    event.ImageURL,
	}
	if event.EndDate != nil {
		out.EndDate = event.EndDate.UTC().Format(time.RFC3339)
	}
	return out
}
