// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quadboard/quadboard/internal/models"
)

// ErrAlreadySaved is returned when a user saves an event twice.
var ErrAlreadySaved = errors.New("database: event already saved")

// SaveEvent records a bookmark. The event must exist; saving twice returns
// ErrAlreadySaved.
func (db *DB) SaveEvent(ctx context.Context, userID, eventID string) error {
	if _, err := db.GetEvent(ctx, eventID); err != nil {
		return err
	}

	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_events WHERE user_id = ? AND event_id = ?`,
		userID, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check saved event: %w", err)
	}
	if exists > 0 {
		return ErrAlreadySaved
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO saved_events (user_id, event_id, created_at) VALUES (?, ?, ?)`,
		userID, eventID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert saved event: %w", err)
	}
	return nil
}

// UnsaveEvent removes a bookmark. Returns ErrNotFound when none exists.
func (db *DB) UnsaveEvent(ctx context.Context, userID, eventID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM saved_events WHERE user_id = ? AND event_id = ?`, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete saved event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SavedEventsForUser returns the events a user bookmarked, most recently
// saved first.
func (db *DB) SavedEventsForUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := `SELECT ` + prefixColumns("e.", eventColumns) + `
		FROM events e
		JOIN saved_events s ON s.event_id = e.id
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, e.id`

	events := make([]models.Event, 0)
	err := db.queryAndScan(ctx, query, []interface{}{userID}, func(rows *sql.Rows) error {
		event, err := scanEvent(rows)
		if err != nil {
			return err
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saved events for user: %w", err)
	}
	return events, nil
}

// AllSavedEvents returns every bookmark relation in stable order.
func (db *DB) AllSavedEvents(ctx context.Context) ([]models.SavedEvent, error) {
	relations := make([]models.SavedEvent, 0)
	err := db.queryAndScan(ctx,
		`SELECT user_id, event_id, created_at FROM saved_events ORDER BY user_id, event_id`, nil,
		func(rows *sql.Rows) error {
			var rel models.SavedEvent
			if err := rows.Scan(&rel.UserID, &rel.EventID, &rel.CreatedAt); err != nil {
				return err
			}
			relations = append(relations, rel)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("all saved events: %w", err)
	}
	return relations, nil
}
