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

	"github.com/google/uuid"

	"github.com/quadboard/quadboard/internal/models"
)

// CreateUser inserts a new user. A zero ID is replaced with a fresh UUID.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser fetches one user by ID.
func (db *DB) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = ?`, userID).
		Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetProfile fetches a user's declared interests. An unknown user yields a
// profile with empty interests, not an error; the recommendation pipeline
// treats the two identically.
func (db *DB) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		profile       models.Profile
		interestsJSON string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, interests, updated_at FROM profiles WHERE user_id = ?`, userID).
		Scan(&profile.UserID, &interestsJSON, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.Profile{UserID: userID, Interests: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile.Interests, err = unmarshalTags(interestsJSON)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateInterests upserts a user's declared interest tags.
func (db *DB) UpdateInterests(ctx context.Context, userID string, interests []string) error {
	interestsJSON, err := marshalTags(interests)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO profiles (user_id, interests, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			interests = excluded.interests,
			updated_at = excluded.updated_at`,
		userID, interestsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert interests: %w", err)
	}
	return nil
}

// AllProfiles returns every profile ordered by user ID. The stable order
// matters: the recommendation engine's clustering is deterministic only for
// identical input order.
func (db *DB) AllProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	err := db.queryAndScan(ctx,
		`SELECT user_id, interests, updated_at FROM profiles ORDER BY user_id`, nil,
		func(rows *sql.Rows) error {
			var (
				profile       models.Profile
				interestsJSON string
			)
			if err := rows.Scan(&profile.UserID, &interestsJSON, &profile.UpdatedAt); err != nil {
				return err
			}
			interests, err := unmarshalTags(interestsJSON)
			if err != nil {
				return err
			}
			profile.Interests = interests
			profiles = append(profiles, profile)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("all profiles: %w", err)
	}
	return profiles, nil
}
