// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/quadboard/quadboard/internal/models"
)

func eventBody(title, startDate string) string {
	return fmt.Sprintf(`{"title":%q,"tags":["music"],"start_date":%q}`, title, startDate)
}

func futureDate(daysAhead int) string {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Format(time.RFC3339)
}

func TestCreateEvent(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
		eventBody("Open Mic Night", futureDate(7)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if envelope.Status != "success" {
		t.Fatalf("envelope status = %q", envelope.Status)
	}

	data := envelope.Data.(map[string]interface{})
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatal("created event has no id")
	}
	stored := store.events[id]
	if stored == nil {
		t.Fatalf("event %q not persisted", id)
	}
	if stored.CreatedBy != "alice" {
		t.Errorf("CreatedBy = %q, want alice", stored.CreatedBy)
	}
	if stored.Title != "Open Mic Night" {
		t.Errorf("Title = %q", stored.Title)
	}
}

func TestCreateEventRejectsBadPayloads(t *testing.T) {
	server := newTestServer(newStubStore(), &stubRecommender{})

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not json", "{nope", "INVALID_JSON"},
		{"unknown field", `{"title":"Party","tags":["music"],"start_date":"2026-10-01T18:00:00Z","surprise":true}`, "INVALID_JSON"},
		{"missing title", `{"tags":["music"],"start_date":"2026-10-01T18:00:00Z"}`, "VALIDATION_ERROR"},
		{"short title", eventBody("ab", "2026-10-01T18:00:00Z"), "VALIDATION_ERROR"},
		{"no tags", `{"title":"Party","tags":[],"start_date":"2026-10-01T18:00:00Z"}`, "VALIDATION_ERROR"},
		{"bad start date", eventBody("Party Night", "next tuesday"), "VALIDATION_ERROR"},
		{"end before start", `{"title":"Party Night","tags":["music"],"start_date":"2026-10-02T18:00:00Z","end_date":"2026-10-01T18:00:00Z"}`, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/events", "alice", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	_, created := doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
		eventBody("Open Mic Night", futureDate(7)))
	id := created.Data.(map[string]interface{})["id"].(string)

	rec, _ := doRequest(t, server, http.MethodPut, "/api/v1/events/"+id, "alice",
		eventBody("Open Mic Night (Moved)", futureDate(8)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.events[id].Title != "Open Mic Night (Moved)" {
		t.Errorf("Title = %q after update", store.events[id].Title)
	}

	rec, envelope := doRequest(t, server, http.MethodPut, "/api/v1/events/ghost", "alice",
		eventBody("Phantom Show", futureDate(8)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %q", envelope.Error.Code)
	}
}

func TestDeleteEvent(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	_, created := doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
		eventBody("Open Mic Night", futureDate(7)))
	id := created.Data.(map[string]interface{})["id"].(string)

	rec, _ := doRequest(t, server, http.MethodDelete, "/api/v1/events/"+id, "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := store.events[id]; ok {
		t.Error("event still present after delete")
	}

	rec, _ = doRequest(t, server, http.MethodDelete, "/api/v1/events/"+id, "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestGetEvent(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	_, created := doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
		eventBody("Open Mic Night", futureDate(7)))
	id := created.Data.(map[string]interface{})["id"].(string)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events/"+id, "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := envelope.Data.(map[string]interface{})
	if data["title"] != "Open Mic Night" {
		t.Errorf("title = %v", data["title"])
	}

	rec, _ = doRequest(t, server, http.MethodGet, "/api/v1/events/ghost", "bob", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing event status = %d, want 404", rec.Code)
	}
}

func TestListEventsPagination(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	for i := 1; i <= 5; i++ {
		doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
			eventBody(fmt.Sprintf("Event Number %d", i), futureDate(i)))
	}

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events?limit=2&offset=2", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := envelope.Data.(map[string]interface{})
	if total := data["total"].(float64); total != 5 {
		t.Errorf("total = %v, want 5", total)
	}
	results := data["results"].([]interface{})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["title"] != "Event Number 3" {
		t.Errorf("first result = %v, want Event Number 3", first["title"])
	}
}

func TestListEventsClampsLimit(t *testing.T) {
	server := newTestServer(newStubStore(), &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events?limit=9999", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := envelope.Data.(map[string]interface{})
	if limit := data["limit"].(float64); limit != 100 {
		t.Errorf("limit = %v, want clamped 100", limit)
	}
}

func TestListEventsRejectsBadParams(t *testing.T) {
	server := newTestServer(newStubStore(), &stubRecommender{})

	for _, query := range []string{"limit=abc", "limit=0", "offset=-1", "after=yesterday", "before=tonight"} {
		t.Run(query, func(t *testing.T) {
			rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events?"+query, "bob", "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if envelope.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error code = %q", envelope.Error.Code)
			}
		})
	}
}

func TestPopularEvents(t *testing.T) {
	store := newStubStore()
	store.popular = []models.Event{
		{ID: "hot", Title: "Spring Concert", StartDate: time.Now().Add(24 * time.Hour)},
		{ID: "warm", Title: "Career Fair", StartDate: time.Now().Add(48 * time.Hour)},
	}
	store.popularScores = []float64{42, 7}
	server := newTestServer(store, &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events/popular", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	results := envelope.Data.([]interface{})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["id"] != "hot" || first["score"].(float64) != 42 {
		t.Errorf("first = %v", first)
	}

	rec, envelope = doRequest(t, server, http.MethodGet, "/api/v1/events/popular?limit=1", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := len(envelope.Data.([]interface{})); got != 1 {
		t.Errorf("limited results = %d, want 1", got)
	}
}

func TestTrendingEvents(t *testing.T) {
	store := newStubStore()
	store.trending = []models.Event{
		{ID: "surge", Title: "Finals Study Jam", StartDate: time.Now().Add(12 * time.Hour)},
	}
	store.trendingScores = []float64{13}
	server := newTestServer(store, &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events/trending", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	results := envelope.Data.([]interface{})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["id"] != "surge" || first["score"].(float64) != 13 {
		t.Errorf("first = %v", first)
	}
	if store.trendingWindow != 24*time.Hour {
		t.Errorf("default window = %v, want 24h", store.trendingWindow)
	}

	// An explicit window is passed through, an oversized one is clamped.
	doRequest(t, server, http.MethodGet, "/api/v1/events/trending?window=6h", "bob", "")
	if store.trendingWindow != 6*time.Hour {
		t.Errorf("window = %v, want 6h", store.trendingWindow)
	}
	doRequest(t, server, http.MethodGet, "/api/v1/events/trending?window=2400h", "bob", "")
	if store.trendingWindow != 7*24*time.Hour {
		t.Errorf("window = %v, want clamped to 168h", store.trendingWindow)
	}

	rec, envelope = doRequest(t, server, http.MethodGet, "/api/v1/events/trending?window=fortnight", "bob", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad window status = %d, want 400", rec.Code)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", envelope.Error.Code)
	}
}

func TestRefreshPopularity(t *testing.T) {
	store := newStubStore()
	store.popular = []models.Event{{ID: "hot"}, {ID: "warm"}}
	server := newTestServer(store, &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/popularity/refresh", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if n := data["refreshed"].(float64); n != 2 {
		t.Errorf("refreshed = %v, want 2", n)
	}
	if store.refreshed != 1 {
		t.Errorf("refresh calls = %d, want 1", store.refreshed)
	}
}

func TestListEventsStatusParam(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	rec, _ := doRequest(t, server, http.MethodGet, "/api/v1/events?status=pending", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=pending code = %d, want 200", rec.Code)
	}
	rec, _ = doRequest(t, server, http.MethodGet, "/api/v1/events?status=all", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=all code = %d, want 200", rec.Code)
	}

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events?status=hidden", "bob", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=hidden code = %d, want 400", rec.Code)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", envelope.Error.Code)
	}
}

func TestCreateEventWithStatus(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store, &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
		`{"title":"Board Review","tags":["campus"],"start_date":"2026-10-01T18:00:00Z","status":"pending"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	id := envelope.Data.(map[string]interface{})["id"].(string)
	if store.events[id].Status != models.EventPending {
		t.Errorf("Status = %q, want pending", store.events[id].Status)
	}

	rec, envelope = doRequest(t, server, http.MethodPost, "/api/v1/events", "alice",
		`{"title":"Board Review","tags":["campus"],"start_date":"2026-10-01T18:00:00Z","status":"hidden"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status code = %d, want 400", rec.Code)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", envelope.Error.Code)
	}
}

func TestStoreFailureYieldsInternalError(t *testing.T) {
	store := newStubStore()
	store.failErr = fmt.Errorf("disk on fire")
	server := newTestServer(store, &stubRecommender{})

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/events", "bob", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if envelope.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("error code = %q", envelope.Error.Code)
	}
	if strings.Contains(envelope.Error.Message, "disk on fire") {
		t.Error("internal error detail leaked to client")
	}
}
