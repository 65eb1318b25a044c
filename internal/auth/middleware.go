// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/quadboard/quadboard/internal/config"
	"github.com/quadboard/quadboard/internal/logging"
	"github.com/quadboard/quadboard/internal/models"
)

// contextKey is the private type for context keys defined here.
type contextKey string

// userIDKey is the context key the middleware stores the authenticated user
// ID under.
const userIDKey contextKey = "auth_user_id"

// UserIDFromContext returns the authenticated user's ID, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithUserID returns a context carrying the user ID. Exposed for
// handler tests.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Middleware authenticates requests according to the configured mode.
type Middleware struct {
	mode string
	jwt  *JWTManager
}

// NewMiddleware creates the authentication middleware. In "jwt" mode a
// JWTManager is required; "none" mode trusts the X-User-ID header and is
// rejected by config validation outside development.
func NewMiddleware(cfg *config.SecurityConfig, jwt *JWTManager) *Middleware {
	return &Middleware{mode: cfg.AuthMode, jwt: jwt}
}

// Authenticate resolves the request's user identity and stores it on the
// context. Requests without a resolvable identity are rejected with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.resolveUser(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("authentication failed")
			unauthorized(w, "missing or invalid credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	})
}

// resolveUser extracts the user ID from the request per the configured mode.
func (m *Middleware) resolveUser(r *http.Request) (string, error) {
	if m.mode == "none" {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			return "", errMissingIdentity
		}
		return userID, nil
	}

	token, err := bearerToken(r)
	if err != nil {
		return "", err
	}
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// errMissingIdentity reports a request with no usable credentials.
var errMissingIdentity = &authError{"no user identity on request"}

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingIdentity
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", &authError{"authorization header is not a bearer token"}
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errMissingIdentity
	}
	return token, nil
}

// unauthorized writes the standard 401 error envelope.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error().Err(err).Msg("failed to write unauthorized response")
	}
}
