// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// stubProvider is a configurable in-memory DataProvider.
type stubProvider struct {
	interests      map[string][]string
	allInterests   []UserInterests
	saved          []SavedEvent
	events         []Event
	popularity     map[string]float64
	fallbackEvents []Event

	errInterests  error
	errAll        error
	errSaved      error
	errEvents     error
	errPopularity error
	errFallback   error

	fallbackCalls int
	fallbackTags  []string
}

func (s *stubProvider) GetUserInterests(_ context.Context, userID string) ([]string, error) {
	if s.errInterests != nil {
		return nil, s.errInterests
	}
	return s.interests[userID], nil
}

func (s *stubProvider) GetAllUserInterests(_ context.Context) ([]UserInterests, error) {
	if s.errAll != nil {
		return nil, s.errAll
	}
	return s.allInterests, nil
}

func (s *stubProvider) GetSavedEvents(_ context.Context) ([]SavedEvent, error) {
	if s.errSaved != nil {
		return nil, s.errSaved
	}
	return s.saved, nil
}

func (s *stubProvider) GetEvents(_ context.Context) ([]Event, error) {
	if s.errEvents != nil {
		return nil, s.errEvents
	}
	return s.events, nil
}

func (s *stubProvider) GetPopularityScores(_ context.Context) (map[string]float64, error) {
	if s.errPopularity != nil {
		return nil, s.errPopularity
	}
	return s.popularity, nil
}

func (s *stubProvider) GetEventsByRawTags(_ context.Context, tags []string, after time.Time, limit int) ([]Event, error) {
	s.fallbackCalls++
	s.fallbackTags = tags
	if s.errFallback != nil {
		return nil, s.errFallback
	}
	out := s.fallbackEvents
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestEngine(t *testing.T, provider DataProvider) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), zerolog.Nop(), provider)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.now = func() time.Time { return testNow }
	return e
}

func futureEvent(id string, daysAhead int, tags ...string) Event {
	return Event{
		ID:        id,
		Title:     "Event " + id,
		Tags:      tags,
		StartDate: testNow.AddDate(0, 0, daysAhead).Format(time.RFC3339),
	}
}

func resultIDs(results []ScoredEvent) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Event.ID)
	}
	return ids
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(DefaultConfig(), zerolog.Nop(), nil); err == nil {
		t.Error("NewEngine(nil provider) did not return an error")
	}

	// Nil config falls back to defaults.
	e, err := NewEngine(nil, zerolog.Nop(), &stubProvider{})
	if err != nil {
		t.Fatalf("NewEngine(nil config) error = %v", err)
	}
	if got := e.config.Limits.MaxResults; got != 20 {
		t.Errorf("default MaxResults = %d, want 20", got)
	}

	bad := DefaultConfig()
	bad.Weights.Content = -1
	if _, err := NewEngine(bad, zerolog.Nop(), &stubProvider{}); err == nil {
		t.Error("NewEngine(invalid weights) did not return an error")
	}
}

func TestRecommendRequiresUser(t *testing.T) {
	e := newTestEngine(t, &stubProvider{})
	if _, err := e.Recommend(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Recommend(\"\") error = %v, want ErrUnauthorized", err)
	}
}

func TestRecommendColdUser(t *testing.T) {
	provider := &stubProvider{
		events: []Event{futureEvent("e1", 7, "social")},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got == nil {
		t.Fatal("cold user returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("cold user got %d results, want 0", len(got))
	}
	if provider.fallbackCalls != 0 {
		t.Errorf("fallback queried %d times for a cold user, want 0", provider.fallbackCalls)
	}
}

func TestRecommendFetchErrorsAreTerminal(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name  string
		wire  func(p *stubProvider)
		inMsg string
	}{
		{"user interests", func(p *stubProvider) { p.errInterests = boom }, "get user interests"},
		{"all interests", func(p *stubProvider) { p.errAll = boom }, "get all user interests"},
		{"saved events", func(p *stubProvider) { p.errSaved = boom }, "get saved events"},
		{"events", func(p *stubProvider) { p.errEvents = boom }, "get events"},
		{"popularity", func(p *stubProvider) { p.errPopularity = boom }, "get popularity scores"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{
				interests: map[string][]string{"alice": {"social"}},
				events:    []Event{futureEvent("e1", 7, "social")},
			}
			tt.wire(provider)
			e := newTestEngine(t, provider)

			_, err := e.Recommend(context.Background(), "alice")
			if !errors.Is(err, boom) {
				t.Fatalf("error = %v, want wrapped %v", err, boom)
			}
			if !strings.Contains(err.Error(), tt.inMsg) {
				t.Errorf("error %q does not mention %q", err, tt.inMsg)
			}
		})
	}
}

func TestRecommendContentChannel(t *testing.T) {
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		events: []Event{
			futureEvent("match", 7, "social"),
			futureEvent("miss", 3, "academic"),
		},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := []string{"match"}; !reflect.DeepEqual(resultIDs(got), want) {
		t.Fatalf("result IDs = %v, want %v", resultIDs(got), want)
	}

	r := got[0]
	if r.Reason != "hybrid" {
		t.Errorf("Reason = %q, want hybrid", r.Reason)
	}
	// Perfect content match, no collaborative or popularity signal.
	if math.Abs(r.Score-0.45) > 1e-9 {
		t.Errorf("Score = %f, want 0.45", r.Score)
	}
	if math.Abs(r.Scores["content"]-1) > 1e-9 {
		t.Errorf("content score = %f, want 1", r.Scores["content"])
	}
	if r.Scores["collaborative"] != 0 || r.Scores["popularity"] != 0 {
		t.Errorf("unexpected non-content signal: %v", r.Scores)
	}
}

func TestRecommendExcludesIneligibleCandidates(t *testing.T) {
	past := futureEvent("past", -1, "social")
	garbage := Event{ID: "garbage", Tags: []string{"social"}, StartDate: "next tuesday"}
	missing := Event{ID: "missing", Tags: []string{"social"}}
	saved := futureEvent("saved", 5, "social")
	keep := futureEvent("keep", 2, "social")

	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		saved:        []SavedEvent{{UserID: "alice", EventID: "saved"}},
		events:       []Event{past, garbage, missing, saved, keep},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := []string{"keep"}; !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("result IDs = %v, want %v", resultIDs(got), want)
	}
}

func TestRecommendCollaborativeChannel(t *testing.T) {
	// Alice and Bob share a profile; Bob saved an event Alice has not seen.
	// With both in one cluster, that save drives the collaborative channel.
	provider := &stubProvider{
		interests: map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{
			{UserID: "alice", Interests: []string{"social"}},
			{UserID: "bob", Interests: []string{"social"}},
		},
		saved:  []SavedEvent{{UserID: "bob", EventID: "mixer"}},
		events: []Event{futureEvent("mixer", 4, "social")},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}

	r := got[0]
	if math.Abs(r.Scores["collaborative"]-1) > 1e-9 {
		t.Errorf("collaborative score = %f, want 1", r.Scores["collaborative"])
	}
	// content 1*0.45 + collaborative 1*0.40.
	if math.Abs(r.Score-0.85) > 1e-9 {
		t.Errorf("Score = %f, want 0.85", r.Score)
	}
}

func TestRecommendCollaborativeSkippedForSingleUser(t *testing.T) {
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		events:       []Event{futureEvent("e1", 1, "social")},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Scores["collaborative"] != 0 {
		t.Errorf("collaborative score = %f, want 0 with a single known user", got[0].Scores["collaborative"])
	}
}

func TestRecommendPopularityNormalization(t *testing.T) {
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		events: []Event{
			futureEvent("hot", 3, "social"),
			futureEvent("warm", 5, "social"),
		},
		popularity: map[string]float64{"hot": 400, "warm": 100},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	byID := make(map[string]ScoredEvent)
	for _, r := range got {
		byID[r.Event.ID] = r
	}
	if p := byID["hot"].Scores["popularity"]; math.Abs(p-1) > 1e-9 {
		t.Errorf("hot popularity = %f, want 1", p)
	}
	if p := byID["warm"].Scores["popularity"]; math.Abs(p-0.25) > 1e-9 {
		t.Errorf("warm popularity = %f, want 0.25", p)
	}
	if got[0].Event.ID != "hot" {
		t.Errorf("first result = %s, want hot", got[0].Event.ID)
	}
}

func TestRecommendPopularityZeroMax(t *testing.T) {
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		events:       []Event{futureEvent("e1", 3, "social")},
		popularity:   map[string]float64{"e1": 0},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Scores["popularity"] != 0 {
		t.Errorf("popularity = %f, want 0 when max counter is zero", got[0].Scores["popularity"])
	}
}

func TestRecommendSavedEventsWeighProfile(t *testing.T) {
	// Alice declared academic but saved two sports events; the accumulated
	// vector (academic 1, sports 4) must rank a sports event above academic.
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"academic"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"academic"}}},
		saved: []SavedEvent{
			{UserID: "alice", EventID: "game1"},
			{UserID: "alice", EventID: "game2"},
		},
		events: []Event{
			futureEvent("game1", -5, "sports"),
			futureEvent("game2", -2, "sports"),
			futureEvent("next-game", 3, "sports"),
			futureEvent("lecture", 2, "academic"),
		},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := []string{"next-game", "lecture"}; !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("result IDs = %v, want %v", resultIDs(got), want)
	}
}

func TestRecommendTieBreaksByStartDate(t *testing.T) {
	// Popularity 300 vs 299 with max 300 yields a combined score gap of
	// 0.15 * (1/300) = 0.0005, inside the 0.001 tie window; the later-starting
	// but fractionally higher-scored event must sort after the sooner one.
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		events: []Event{
			futureEvent("later-hotter", 10, "social"),
			futureEvent("sooner", 2, "social"),
		},
		popularity: map[string]float64{"later-hotter": 300, "sooner": 299},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := []string{"sooner", "later-hotter"}; !reflect.DeepEqual(resultIDs(got), want) {
		t.Errorf("result IDs = %v, want %v", resultIDs(got), want)
	}
}

func TestRecommendCapsResults(t *testing.T) {
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		popularity:   map[string]float64{},
	}
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("e%02d", i)
		provider.events = append(provider.events, futureEvent(id, i+1, "social"))
		provider.popularity[id] = float64(100 - i)
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 20 {
		t.Errorf("got %d results, want 20", len(got))
	}
}

func TestRecommendFallbackOnNoScoredCandidates(t *testing.T) {
	// Alice has interests but every candidate scores zero (no tag overlap,
	// no neighbors, no popularity), so the tag-overlap fallback takes over.
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social", "art"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social", "art"}}},
		events:       []Event{futureEvent("unrelated", 3, "academic")},
		fallbackEvents: []Event{
			futureEvent("gallery", 9, "art"),
			futureEvent("mixer", 2, "networking"),
			futureEvent("stale", -3, "party"),
		},
	}
	e := newTestEngine(t, provider)

	got, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if provider.fallbackCalls != 1 {
		t.Fatalf("fallback queried %d times, want 1", provider.fallbackCalls)
	}

	// Query tags are the reverse alias expansion of the user's categories.
	for _, want := range []string{"social", "networking", "party", "cultural", "art", "music", "dance"} {
		found := false
		for _, tag := range provider.fallbackTags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("fallback query tags %v missing %q", provider.fallbackTags, want)
		}
	}

	// Past results are dropped, the rest come back soonest first, unscored.
	if want := []string{"mixer", "gallery"}; !reflect.DeepEqual(resultIDs(got), want) {
		t.Fatalf("fallback IDs = %v, want %v", resultIDs(got), want)
	}
	for _, r := range got {
		if r.Reason != "interest_overlap" {
			t.Errorf("Reason = %q, want interest_overlap", r.Reason)
		}
		if r.Score != 0 {
			t.Errorf("fallback Score = %f, want 0", r.Score)
		}
	}
}

func TestRecommendFallbackErrorIsTerminal(t *testing.T) {
	boom := errors.New("query timeout")
	provider := &stubProvider{
		interests:    map[string][]string{"alice": {"social"}},
		allInterests: []UserInterests{{UserID: "alice", Interests: []string{"social"}}},
		errFallback:  boom,
	}
	e := newTestEngine(t, provider)

	if _, err := e.Recommend(context.Background(), "alice"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	provider := &stubProvider{
		interests: map[string][]string{"alice": {"social", "sports"}},
		allInterests: []UserInterests{
			{UserID: "alice", Interests: []string{"social", "sports"}},
			{UserID: "bob", Interests: []string{"social"}},
			{UserID: "carol", Interests: []string{"academic", "career"}},
			{UserID: "dave", Interests: []string{"sports", "wellness"}},
		},
		saved: []SavedEvent{
			{UserID: "bob", EventID: "mixer"},
			{UserID: "dave", EventID: "5k"},
			{UserID: "carol", EventID: "jobfair"},
		},
		events: []Event{
			futureEvent("mixer", 2, "social", "networking"),
			futureEvent("5k", 4, "fitness", "sports"),
			futureEvent("jobfair", 6, "career", "professional"),
			futureEvent("hack", 8, "hackathon", "coding"),
			futureEvent("concert", 3, "music"),
		},
		popularity: map[string]float64{"mixer": 120, "5k": 80, "concert": 200},
	}
	e := newTestEngine(t, provider)

	first, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := e.Recommend(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical snapshot produced different results:\n%v\n%v", first, second)
	}

	// Results arrive score-descending outside the tie window.
	for i := 1; i < len(first); i++ {
		if first[i].Score-first[i-1].Score > e.config.Limits.TieEpsilon {
			t.Errorf("result %d (%f) outranks result %d (%f)", i, first[i].Score, i-1, first[i-1].Score)
		}
	}
}
