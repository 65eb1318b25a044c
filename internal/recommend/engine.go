// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Engine computes event recommendations. It holds only configuration, a
// logger, and the data provider: every request recomputes clustering and
// scores from the provider's current snapshot, so the engine is safe for
// concurrent use without locking.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider

	// now is swappable for tests; candidate eligibility depends on it.
	now func() time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, provider DataProvider) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider not set")
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		provider: provider,
		now:      time.Now,
	}, nil
}

// snapshot holds the result of the five parallel data fetches. It is the
// complete read set for one recommendation computation.
type snapshot struct {
	requesterTags []string
	allInterests  []UserInterests
	saved         []SavedEvent
	events        []Event
	popularity    map[string]float64
}

// Recommend produces a ranked list of at most MaxResults events for the
// user. The returned slice is never nil; an empty slice is a valid result
// for cold users and empty candidate sets. Data fetch failures are terminal
// and returned unwrapped of any partial results.
func (e *Engine) Recommend(ctx context.Context, userID string) ([]ScoredEvent, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	start := time.Now()
	logger := e.logger.With().Str("user_id", userID).Logger()

	snap, err := e.gather(ctx, userID)
	if err != nil {
		return nil, err
	}

	maxPopularity := maxValue(snap.popularity)

	vectors, order := e.buildUserVectors(snap)
	rawVector, hasRaw := vectors[userID]
	requesterCategories := NormalizeTags(snap.requesterTags)

	// Cold start: no declared interests and no accumulated signal means
	// there is nothing to score against. A valid, non-error terminal state.
	if len(requesterCategories) == 0 && (!hasRaw || rawVector.IsZero()) {
		logger.Debug().Msg("cold user, returning empty recommendations")
		return []ScoredEvent{}, nil
	}

	// The effective vector for content scoring prefers accumulated signal
	// (interests plus saved events) and falls back to declared interests
	// alone only when the accumulated vector is truly zero.
	effective := rawVector
	if !hasRaw || rawVector.IsZero() {
		effective = VectorFromCategories(requesterCategories)
	}

	neighborSaves, maxNeighborSaves := e.collaborativeCounts(userID, vectors, order, snap, logger)

	now := e.now()
	scored := e.scoreCandidates(snap, userID, effective, neighborSaves, maxNeighborSaves, maxPopularity, now)
	e.sortScored(scored)

	if len(scored) > e.config.Limits.MaxResults {
		scored = scored[:e.config.Limits.MaxResults]
	}

	results := make([]ScoredEvent, 0, len(scored))
	for _, s := range scored {
		results = append(results, s.ScoredEvent)
	}

	if len(results) == 0 && len(requesterCategories) > 0 {
		fallback, err := e.fallbackByTagOverlap(ctx, requesterCategories, now)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Int("returned", len(fallback)).
			Dur("elapsed", time.Since(start)).
			Msg("recommendations served from tag-overlap fallback")
		return fallback, nil
	}

	logger.Debug().
		Int("candidates_scored", len(scored)).
		Int("returned", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations computed")

	return results, nil
}

// gather runs the five independent reads concurrently and waits for all of
// them. The reads are mutually independent, so relative completion order
// does not matter; any failure cancels the rest and is terminal.
func (e *Engine) gather(ctx context.Context, userID string) (*snapshot, error) {
	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tags, err := e.provider.GetUserInterests(gctx, userID)
		if err != nil {
			return fmt.Errorf("get user interests: %w", err)
		}
		snap.requesterTags = tags
		return nil
	})
	g.Go(func() error {
		all, err := e.provider.GetAllUserInterests(gctx)
		if err != nil {
			return fmt.Errorf("get all user interests: %w", err)
		}
		snap.allInterests = all
		return nil
	})
	g.Go(func() error {
		saved, err := e.provider.GetSavedEvents(gctx)
		if err != nil {
			return fmt.Errorf("get saved events: %w", err)
		}
		snap.saved = saved
		return nil
	})
	g.Go(func() error {
		events, err := e.provider.GetEvents(gctx)
		if err != nil {
			return fmt.Errorf("get events: %w", err)
		}
		snap.events = events
		return nil
	})
	g.Go(func() error {
		pop, err := e.provider.GetPopularityScores(gctx)
		if err != nil {
			return fmt.Errorf("get popularity scores: %w", err)
		}
		snap.popularity = pop
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// buildUserVectors builds one feature vector per known user: declared
// interest categories at weight 1, then each saved event's categories
// accumulated at SavedEventWeight. Users that appear only in saved-event
// relations still get a vector. The returned order is the clustering input
// order and is stable for identical provider snapshots.
func (e *Engine) buildUserVectors(snap *snapshot) (map[string]Vector, []string) {
	vectors := make(map[string]Vector, len(snap.allInterests))
	order := make([]string, 0, len(snap.allInterests))

	for _, ui := range snap.allInterests {
		if _, ok := vectors[ui.UserID]; ok {
			continue
		}
		vectors[ui.UserID] = VectorFromCategories(NormalizeTags(ui.Interests))
		order = append(order, ui.UserID)
	}

	eventsByID := make(map[string]*Event, len(snap.events))
	for i := range snap.events {
		eventsByID[snap.events[i].ID] = &snap.events[i]
	}

	// Accumulation order across relations does not affect the final vectors
	// (addition is commutative), but vector creation order does affect the
	// clustering input order, so relation order stays as fetched.
	for _, rel := range snap.saved {
		event, ok := eventsByID[rel.EventID]
		if !ok {
			continue
		}
		v, ok := vectors[rel.UserID]
		if !ok {
			v = NewVector()
			vectors[rel.UserID] = v
			order = append(order, rel.UserID)
		}
		v.Accumulate(NormalizeTags(event.Tags), e.config.Limits.SavedEventWeight)
	}

	return vectors, order
}

// collaborativeCounts clusters all users and counts, per event, how many
// same-cluster neighbors of the requester saved it. It returns zero counts
// (a degraded mode, not an error) when clustering preconditions are not
// met: fewer than two known users, or a requester with no accumulated
// signal to cluster on.
func (e *Engine) collaborativeCounts(
	userID string,
	vectors map[string]Vector,
	order []string,
	snap *snapshot,
	logger zerolog.Logger,
) (map[string]int, int) {
	raw, ok := vectors[userID]
	if len(order) < 2 || !ok || raw.IsZero() {
		return nil, 0
	}

	points := make([]UserPoint, 0, len(order))
	for _, id := range order {
		points = append(points, UserPoint{UserID: id, Vector: vectors[id]})
	}

	k := e.config.Limits.MaxClusters
	if k > len(points) {
		k = len(points)
	}

	assignments, err := KMeans(points, k)
	if err != nil {
		// k is always >= 1 here; an error would be a bug, not a data state.
		logger.Warn().Err(err).Msg("clustering failed, collaborative signal degraded to zero")
		return nil, 0
	}

	clusterByUser := make(map[string]int, len(assignments))
	for _, a := range assignments {
		clusterByUser[a.UserID] = a.Cluster
	}
	requesterCluster, ok := clusterByUser[userID]
	if !ok {
		return nil, 0
	}

	requesterSaved := savedSetFor(snap.saved, userID)

	counts := make(map[string]int)
	maxCount := 0
	for _, rel := range snap.saved {
		if rel.UserID == userID {
			continue
		}
		if clusterByUser[rel.UserID] != requesterCluster {
			continue
		}
		if _, already := requesterSaved[rel.EventID]; already {
			continue
		}
		counts[rel.EventID]++
		if counts[rel.EventID] > maxCount {
			maxCount = counts[rel.EventID]
		}
	}

	return counts, maxCount
}

// scoredCandidate pairs a result with its parsed start time for sorting.
type scoredCandidate struct {
	ScoredEvent
	startTime time.Time
	hasStart  bool
}

// scoreCandidates scores every eligible candidate: not saved by the
// requester, start date parseable and at or after now. Candidates whose
// combined score is exactly zero are discarded; they were touched by no
// signal, and padding results with noise helps nobody.
func (e *Engine) scoreCandidates(
	snap *snapshot,
	userID string,
	effective Vector,
	neighborSaves map[string]int,
	maxNeighborSaves int,
	maxPopularity float64,
	now time.Time,
) []scoredCandidate {
	requesterSaved := savedSetFor(snap.saved, userID)
	weights := e.config.Weights

	scored := make([]scoredCandidate, 0, len(snap.events))
	for i := range snap.events {
		event := &snap.events[i]

		if _, saved := requesterSaved[event.ID]; saved {
			continue
		}
		startTime, ok := event.StartTime()
		if !ok || startTime.Before(now) {
			continue
		}

		content := CosineSimilarity(effective, VectorFromCategories(NormalizeTags(event.Tags)))

		var collaborative float64
		if maxNeighborSaves > 0 {
			collaborative = float64(neighborSaves[event.ID]) / float64(maxNeighborSaves)
		}

		var popularity float64
		if maxPopularity > 0 {
			popularity = snap.popularity[event.ID] / maxPopularity
		}

		combined := weights.Content*content +
			weights.Collaborative*collaborative +
			weights.Popularity*popularity
		if combined == 0 {
			continue
		}

		scored = append(scored, scoredCandidate{
			ScoredEvent: ScoredEvent{
				Event: *event,
				Score: combined,
				Scores: map[string]float64{
					"content":       content,
					"collaborative": collaborative,
					"popularity":    popularity,
				},
				Reason: "hybrid",
			},
			startTime: startTime,
			hasStart:  true,
		})
	}

	return scored
}

// sortScored orders candidates by combined score descending. Scores within
// TieEpsilon of each other are treated as tied and ordered by start time
// ascending (soonest first); a candidate with no resolvable start time
// sorts last among its ties.
func (e *Engine) sortScored(scored []scoredCandidate) {
	epsilon := e.config.Limits.TieEpsilon
	sort.SliceStable(scored, func(i, j int) bool {
		diff := scored[i].Score - scored[j].Score
		if diff > epsilon {
			return true
		}
		if diff < -epsilon {
			return false
		}
		// Tied on score.
		switch {
		case scored[i].hasStart && scored[j].hasStart:
			return scored[i].startTime.Before(scored[j].startTime)
		case scored[i].hasStart:
			return true
		default:
			return false
		}
	})
}

// fallbackByTagOverlap is the cold-start guarantee: a user with stated
// preferences but no scoring overlap still gets relevant output. It queries
// events by raw-tag overlap with the requester's interests (reverse-mapped
// through the alias table), keeps only future-dated ones, and returns them
// soonest first.
func (e *Engine) fallbackByTagOverlap(ctx context.Context, categories []Category, now time.Time) ([]ScoredEvent, error) {
	limit := e.config.Limits.MaxResults
	events, err := e.provider.GetEventsByRawTags(ctx, RawTagsFor(categories), now, limit)
	if err != nil {
		return nil, fmt.Errorf("fallback candidates: %w", err)
	}

	type dated struct {
		event Event
		start time.Time
	}
	kept := make([]dated, 0, len(events))
	for _, event := range events {
		startTime, ok := event.StartTime()
		if !ok || startTime.Before(now) {
			continue
		}
		kept = append(kept, dated{event: event, start: startTime})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].start.Before(kept[j].start)
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	results := make([]ScoredEvent, 0, len(kept))
	for _, d := range kept {
		results = append(results, ScoredEvent{
			Event:  d.event,
			Reason: "interest_overlap",
		})
	}
	return results, nil
}

// savedSetFor returns the set of event IDs a user has saved.
func savedSetFor(saved []SavedEvent, userID string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, rel := range saved {
		if rel.UserID == userID {
			set[rel.EventID] = struct{}{}
		}
	}
	return set
}

// maxValue returns the largest value in the map, or 0 for an empty map.
func maxValue(m map[string]float64) float64 {
	var max float64
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	return max
}
