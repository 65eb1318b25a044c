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
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/quadboard/quadboard/internal/logging"
	"github.com/quadboard/quadboard/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("database: not found")

// eventColumns is the column list shared by all event SELECTs, in scan order.
const eventColumns = `id, title, description, location, organizer, tags,
	start_date, end_date, image_url, status, created_by, created_at, updated_at`

// CreateEvent inserts a new event. A zero ID is replaced with a fresh UUID
// and a zero status defaults to approved.
// The event's tags are mirrored into event_tags in the same transaction.
func (db *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Status == "" {
		event.Status = models.EventApproved
	}
	if !event.Status.Valid() {
		return fmt.Errorf("invalid event status %q", event.Status)
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	tagsJSON, err := marshalTags(event.Tags)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, title, description, location, organizer, tags,
			start_date, end_date, image_url, status, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Description, event.Location, event.Organizer,
		tagsJSON, event.StartDate, event.EndDate, event.ImageURL, string(event.Status),
		event.CreatedBy, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if err := replaceEventTags(ctx, tx, event.ID, event.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event: %w", err)
	}
	return nil
}

// UpdateEvent replaces an event's mutable fields. Returns ErrNotFound when
// the event does not exist.
func (db *DB) UpdateEvent(ctx context.Context, event *models.Event) error {
	if event.Status == "" {
		event.Status = models.EventApproved
	}
	if !event.Status.Valid() {
		return fmt.Errorf("invalid event status %q", event.Status)
	}
	tagsJSON, err := marshalTags(event.Tags)
	if err != nil {
		return err
	}
	event.UpdatedAt = time.Now().UTC()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	res, err := tx.ExecContext(ctx, `
		UPDATE events SET title = ?, description = ?, location = ?, organizer = ?,
			tags = ?, start_date = ?, end_date = ?, image_url = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		event.Title, event.Description, event.Location, event.Organizer,
		tagsJSON, event.StartDate, event.EndDate, event.ImageURL, string(event.Status),
		event.UpdatedAt, event.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := replaceEventTags(ctx, tx, event.ID, event.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event and its dependent rows.
func (db *DB) DeleteEvent(ctx context.Context, eventID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	for _, q := range []string{
		`DELETE FROM event_tags WHERE event_id = ?`,
		`DELETE FROM saved_events WHERE event_id = ?`,
		`DELETE FROM interactions WHERE event_id = ?`,
		`DELETE FROM popularity_scores WHERE event_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, eventID); err != nil {
			return fmt.Errorf("delete event dependents: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// GetEvent fetches one event by ID.
func (db *DB) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents returns events matching the filter, ordered by start date
// ascending, plus the total match count for pagination.
func (db *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	where, args := buildEventWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM events e` + where
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := `SELECT ` + prefixColumns("e.", eventColumns) + ` FROM events e` + where +
		` ORDER BY e.start_date ASC, e.id ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	events := make([]models.Event, 0)
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		event, err := scanEvent(rows)
		if err != nil {
			return err
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// buildEventWhere builds the WHERE clause and args shared by ListEvents'
// count and page queries.
func buildEventWhere(filter models.EventFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	switch filter.Status {
	case "all":
		// no status clause
	case "":
		clauses = append(clauses, "e.status = ?")
		args = append(args, string(models.EventApproved))
	default:
		clauses = append(clauses, "e.status = ?")
		args = append(args, filter.Status)
	}

	if filter.After != nil {
		clauses = append(clauses, "e.start_date >= ?")
		args = append(args, *filter.After)
	}
	if filter.Before != nil {
		clauses = append(clauses, "e.start_date < ?")
		args = append(args, *filter.Before)
	}
	if len(filter.Tags) > 0 {
		placeholders := make([]string, len(filter.Tags))
		for i, tag := range filter.Tags {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(strings.TrimSpace(tag)))
		}
		clauses = append(clauses, fmt.Sprintf(
			"e.id IN (SELECT event_id FROM event_tags WHERE tag IN (%s))",
			strings.Join(placeholders, ", ")))
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		clauses = append(clauses,
			"(LOWER(e.title) LIKE ? OR LOWER(e.description) LIKE ? OR LOWER(e.organizer) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan code.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEvent scans one event row in eventColumns order.
func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		event    models.Event
		tagsJSON string
		endDate  sql.NullTime
		status   string
	)
	err := row.Scan(&event.ID, &event.Title, &event.Description, &event.Location,
		&event.Organizer, &tagsJSON, &event.StartDate, &endDate, &event.ImageURL,
		&status, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	event.Status = models.EventStatus(status)
	if endDate.Valid {
		t := endDate.Time
		event.EndDate = &t
	}
	event.Tags, err = unmarshalTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// prefixColumns prefixes each column in a comma-separated list.
func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// replaceEventTags rewrites the normalized tag rows for an event.
func replaceEventTags(ctx context.Context, tx *sql.Tx, eventID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_tags WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("clear event tags: %w", err)
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, tag) VALUES (?, ?)`, eventID, tag); err != nil {
			return fmt.Errorf("insert event tag: %w", err)
		}
	}
	return nil
}

// marshalTags encodes tags as a JSON array, normalizing nil to [].
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// unmarshalTags decodes a JSON tag array, normalizing null to [].
func unmarshalTags(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// rollbackQuietly rolls back a transaction, ignoring the error a committed
// transaction returns.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("transaction rollback failed")
	}
}
