// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import "fmt"

// Config contains the engine's policy constants. The defaults encode the
// production scoring policy; they live here as named values rather than
// inline literals so tuning is a config change with no control-flow risk.
type Config struct {
	// Weights defines the contribution of each scoring channel.
	Weights ChannelWeights `json:"weights" koanf:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// ChannelWeights defines the contribution of each scoring channel to the
// combined score. The weights are applied as-is (not renormalized): the
// combined score is Content*content + Collaborative*collab + Popularity*pop.
type ChannelWeights struct {
	// Content is the weight for cosine similarity between the user's and the
	// event's category vectors. Default: 0.45.
	Content float64 `json:"content" koanf:"content"`

	// Collaborative is the weight for same-cluster neighbor saves.
	// Default: 0.40.
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`

	// Popularity is the weight for aggregate engagement. Default: 0.15.
	Popularity float64 `json:"popularity" koanf:"popularity"`
}

// ToMap returns the weights as a channel-name-keyed map.
func (w ChannelWeights) ToMap() map[string]float64 {
	return map[string]float64{
		"content":       w.Content,
		"collaborative": w.Collaborative,
		"popularity":    w.Popularity,
	}
}

// LimitsConfig contains operational limits for the pipeline.
type LimitsConfig struct {
	// MaxResults caps the returned list (scored and fallback paths alike).
	// Default: 20.
	MaxResults int `json:"max_results" koanf:"max_results"`

	// MaxClusters is the k handed to KMeans; the effective cluster count is
	// min(MaxClusters, number of users). Default: 3.
	MaxClusters int `json:"max_clusters" koanf:"max_clusters"`

	// SavedEventWeight is the additive weight of each saved event's
	// categories when building a user's vector, against weight 1 for each
	// declared interest. Not capped. Default: 2.
	SavedEventWeight float64 `json:"saved_event_weight" koanf:"saved_event_weight"`

	// TieEpsilon is the combined-score difference below which two candidates
	// are considered tied and ordered by start time instead. Keeps
	// floating-point jitter from reordering near-identical scores.
	// Default: 0.001.
	TieEpsilon float64 `json:"tie_epsilon" koanf:"tie_epsilon"`
}

// DefaultConfig returns the production scoring policy.
func DefaultConfig() *Config {
	return &Config{
		Weights: ChannelWeights{
			Content:       0.45,
			Collaborative: 0.40,
			Popularity:    0.15,
		},
		Limits: LimitsConfig{
			MaxResults:       20,
			MaxClusters:      3,
			SavedEventWeight: 2,
			TieEpsilon:       0.001,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Content < 0 || c.Weights.Collaborative < 0 || c.Weights.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.Weights.Content+c.Weights.Collaborative+c.Weights.Popularity == 0 {
		return fmt.Errorf("at least one channel weight must be positive")
	}
	if c.Limits.MaxResults < 1 {
		return fmt.Errorf("limits.max_results must be positive, got %d", c.Limits.MaxResults)
	}
	if c.Limits.MaxClusters < 1 {
		return fmt.Errorf("limits.max_clusters must be positive, got %d", c.Limits.MaxClusters)
	}
	if c.Limits.SavedEventWeight < 0 {
		return fmt.Errorf("limits.saved_event_weight must be non-negative, got %f", c.Limits.SavedEventWeight)
	}
	if c.Limits.TieEpsilon < 0 {
		return fmt.Errorf("limits.tie_epsilon must be non-negative, got %f", c.Limits.TieEpsilon)
	}
	return nil
}
