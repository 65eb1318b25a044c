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

	"github.com/google/uuid"

	"github.com/quadboard/quadboard/internal/models"
)

// RecordInteraction stores one engagement signal. The interaction type must
// be one of the known types; the event must exist.
func (db *DB) RecordInteraction(ctx context.Context, interaction *models.Interaction) error {
	if !interaction.Type.Valid() {
		return fmt.Errorf("unknown interaction type %q", interaction.Type)
	}
	if _, err := db.GetEvent(ctx, interaction.EventID); err != nil {
		return err
	}

	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	interaction.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, event_id, type, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		interaction.ID, interaction.UserID, interaction.EventID, interaction.Type,
		interaction.Source, interaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// interactionWeightCase builds the SQL CASE expression mapping interaction
// types to their popularity weights, in a fixed order for stable SQL text.
func interactionWeightCase() string {
	types := []models.InteractionType{
		models.InteractionView,
		models.InteractionClick,
		models.InteractionCalendarAdd,
		models.InteractionShare,
		models.InteractionSave,
	}
	var b strings.Builder
	b.WriteString("CASE type ")
	for _, t := range types {
		fmt.Fprintf(&b, "WHEN '%s' THEN %g ", t, models.InteractionWeights[t])
	}
	b.WriteString("ELSE 0 END")
	return b.String()
}

// RefreshPopularity recomputes popularity_scores from the interactions
// table: per event, the sum of interaction weights. The rebuild runs in one
// transaction so readers never observe a half-empty table.
func (db *DB) RefreshPopularity(ctx context.Context) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM popularity_scores`); err != nil {
		return 0, fmt.Errorf("clear popularity scores: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO popularity_scores (event_id, score, computed_at)
		SELECT event_id, SUM(%s), ?
		FROM interactions
		GROUP BY event_id`, interactionWeightCase())
	res, err := tx.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("recompute popularity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit popularity refresh: %w", err)
	}
	return int(affected), nil
}

// PopularityScores returns the raw popularity counters keyed by event ID.
func (db *DB) PopularityScores(ctx context.Context) (map[string]float64, error) {
	scores := make(map[string]float64)
	err := db.queryAndScan(ctx,
		`SELECT event_id, score FROM popularity_scores`, nil,
		func(rows *sql.Rows) error {
			var (
				eventID string
				score   float64
			)
			if err := rows.Scan(&eventID, &score); err != nil {
				return err
			}
			scores[eventID] = score
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("popularity scores: %w", err)
	}
	return scores, nil
}

// PopularEvents returns approved future events ranked by popularity
// descending, ties by start date ascending.
func (db *DB) PopularEvents(ctx context.Context, after time.Time, limit int) ([]models.Event, []float64, error) {
	query := `SELECT ` + prefixColumns("e.", eventColumns) + `, COALESCE(p.score, 0) AS score
		FROM events e
		LEFT JOIN popularity_scores p ON p.event_id = e.id
		WHERE e.start_date >= ? AND e.status = ?
		ORDER BY score DESC, e.start_date ASC, e.id ASC
		LIMIT ?`

	events, scores, err := db.queryScoredEvents(ctx, query,
		[]interface{}{after, string(models.EventApproved), limit}, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("popular events: %w", err)
	}
	return events, scores, nil
}

// TrendingEvents ranks approved future events by weighted interactions
// recorded inside the trailing window only, so long-accumulated
// popularity does not drown out what is hot right now.
func (db *DB) TrendingEvents(ctx context.Context, window time.Duration, limit int) ([]models.Event, []float64, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`SELECT `+prefixColumns("e.", eventColumns)+`, t.score
		FROM events e
		JOIN (
			SELECT event_id, SUM(%s) AS score
			FROM interactions
			WHERE created_at >= ?
			GROUP BY event_id
		) t ON t.event_id = e.id
		WHERE e.start_date >= ? AND e.status = ?
		ORDER BY t.score DESC, e.start_date ASC, e.id ASC
		LIMIT ?`, interactionWeightCase())

	events, scores, err := db.queryScoredEvents(ctx, query,
		[]interface{}{now.Add(-window), now, string(models.EventApproved), limit}, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("trending events: %w", err)
	}
	return events, scores, nil
}

// queryScoredEvents scans rows of eventColumns plus a trailing score.
func (db *DB) queryScoredEvents(ctx context.Context, query string, args []interface{}, limit int) ([]models.Event, []float64, error) {
	events := make([]models.Event, 0, limit)
	scores := make([]float64, 0, limit)
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var (
			event    models.Event
			tagsJSON string
			endDate  sql.NullTime
			status   string
			score    float64
		)
		err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Location,
			&event.Organizer, &tagsJSON, &event.StartDate, &endDate, &event.ImageURL,
			&status, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt, &score)
		if err != nil {
			return err
		}
		event.Status = models.EventStatus(status)
		if endDate.Valid {
			t := endDate.Time
			event.EndDate = &t
		}
		if event.Tags, err = unmarshalTags(tagsJSON); err != nil {
			return err
		}
		events = append(events, event)
		scores = append(scores, score)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return events, scores, nil
}
