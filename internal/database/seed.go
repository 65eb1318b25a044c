// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package database

import (
	"context"
	"time"

	"github.com/quadboard/quadboard/internal/logging"
	"github.com/quadboard/quadboard/internal/models"
)

// seedDemoData loads a small demo dataset for local development. It is a
// no-op when users already exist.
func (db *DB) seedDemoData() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	users := []models.User{
		{ID: "demo-alice", Email: "alice@campus.edu", Name: "Alice"},
		{ID: "demo-bob", Email: "bob@campus.edu", Name: "Bob"},
		{ID: "demo-carol", Email: "carol@campus.edu", Name: "Carol"},
	}
	for i := range users {
		if err := db.CreateUser(ctx, &users[i]); err != nil {
			return err
		}
	}

	interests := map[string][]string{
		"demo-alice": {"coding", "music"},
		"demo-bob":   {"sports", "fitness"},
		"demo-carol": {"career", "networking"},
	}
	for userID, tags := range interests {
		if err := db.UpdateInterests(ctx, userID, tags); err != nil {
			return err
		}
	}

	events := []models.Event{
		{ID: "demo-hacknight", Title: "Hack Night", Organizer: "CS Club",
			Tags: []string{"coding", "hackathon"}, StartDate: now.AddDate(0, 0, 3)},
		{ID: "demo-concert", Title: "Quad Concert", Organizer: "Music Society",
			Tags: []string{"music", "social"}, StartDate: now.AddDate(0, 0, 5)},
		{ID: "demo-5k", Title: "Campus 5K", Organizer: "Rec Center",
			Tags: []string{"fitness", "sports"}, StartDate: now.AddDate(0, 0, 7)},
		{ID: "demo-jobfair", Title: "Fall Job Fair", Organizer: "Career Services",
			Tags: []string{"career", "professional"}, StartDate: now.AddDate(0, 0, 10)},
		{ID: "demo-mixer", Title: "Midnight Mixer", Organizer: "Unverified Org",
			Tags: []string{"social"}, StartDate: now.AddDate(0, 0, 12),
			Status: models.EventPending},
	}
	for i := range events {
		if err := db.CreateEvent(ctx, &events[i]); err != nil {
			return err
		}
	}

	if err := db.SaveEvent(ctx, "demo-alice", "demo-concert"); err != nil {
		return err
	}
	if err := db.SaveEvent(ctx, "demo-bob", "demo-5k"); err != nil {
		return err
	}

	for _, interaction := range []models.Interaction{
		{UserID: "demo-alice", EventID: "demo-hacknight", Type: models.InteractionView, Source: "web"},
		{UserID: "demo-bob", EventID: "demo-concert", Type: models.InteractionClick},
		{UserID: "demo-carol", EventID: "demo-jobfair", Type: models.InteractionShare},
	} {
		i := interaction
		if err := db.RecordInteraction(ctx, &i); err != nil {
			return err
		}
	}

	if _, err := db.RefreshPopularity(ctx); err != nil {
		return err
	}

	logging.Info().Int("users", len(users)).Int("events", len(events)).Msg("demo data seeded")
	return nil
}
