// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

/*
schema.go - Database Schema Management

Tables:
  - users: registered campus users
  - profiles: declared interest tags per user (JSON array)
  - events: campus events with raw tags (JSON array)
  - event_tags: normalized lowercase tag rows, maintained on event writes,
    so tag-overlap queries stay index-friendly SQL instead of JSON scans
  - saved_events: user<->event bookmark relations
  - interactions: raw engagement signals (view, click, calendar_add, share, save)
  - popularity_scores: weighted engagement counters, recomputed by the
    popularity refresher from interactions

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements; there is no
migration framework yet. Revisit once a release carries real user data.
*/
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			interests TEXT NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			organizer TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP,
			image_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'approved',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS event_tags (
			event_id TEXT NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (event_id, tag)
		)`,
		`CREATE TABLE IF NOT EXISTS saved_events (
			user_id TEXT NOT NULL,
			event_id TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, event_id)
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			event_id TEXT NOT NULL,
			type TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS popularity_scores (
			event_id TEXT PRIMARY KEY,
			score DOUBLE NOT NULL,
			computed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates indexes for frequent query patterns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_events_start_date ON events (start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_status ON events (status)`,
		`CREATE INDEX IF NOT EXISTS idx_event_tags_tag ON event_tags (tag)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_events_event ON saved_events (event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_event ON interactions (event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions (created_at)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
