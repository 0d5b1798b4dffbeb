// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
// Treated as immutable once the engine is constructed.
type Config struct {
	// Weights defines the contribution of each signal source.
	Weights SourceWeights `json:"weights"`

	// Limits contains per-source caps and operational limits.
	Limits LimitsConfig `json:"limits"`

	// Thresholds contains rating and quality cutoffs.
	Thresholds ThresholdConfig `json:"thresholds"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`

	// Seed is the random seed for the mood collector's substitution
	// branch. If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// SourceWeights defines the base weight of each signal source. The values
// sum to 100 by default so that content-based matching dominates when
// present; they are applied as-is, not normalized.
type SourceWeights struct {
	ContentBased  float64 `json:"content_based"`
	SimilarTitles float64 `json:"similar_titles"`
	PeopleBased   float64 `json:"people_based"`
	Mood          float64 `json:"mood"`
	Trending      float64 `json:"trending"`
}

// LimitsConfig contains per-source caps and operational limits.
type LimitsConfig struct {
	// MaxRecommendations is the final list cap.
	// Default: 30.
	MaxRecommendations int `json:"max_recommendations"`

	// ContentCap bounds the content-based collector output.
	// Default: 30.
	ContentCap int `json:"content_cap"`

	// SimilarCap bounds the similar-titles collector output.
	// Default: 40.
	SimilarCap int `json:"similar_cap"`

	// PeopleCap bounds the people-based collector output.
	// Default: 25.
	PeopleCap int `json:"people_cap"`

	// MoodCap bounds the mood collector output.
	// Default: 20.
	MoodCap int `json:"mood_cap"`

	// TrendingCap bounds the trending collector output.
	// Default: 30.
	TrendingCap int `json:"trending_cap"`

	// BecauseYouWatchedCap bounds the single-title passthrough output.
	// Default: 12.
	BecauseYouWatchedCap int `json:"because_you_watched_cap"`

	// SimilarSeeds is how many top-rated titles seed the similar-titles
	// collector. Default: 5.
	SimilarSeeds int `json:"similar_seeds"`

	// SimilarConcurrency bounds in-flight per-title provider calls.
	// Default: 3.
	SimilarConcurrency int64 `json:"similar_concurrency"`

	// RecentWindow is how many recent items the mood collector inspects.
	// Default: 7.
	RecentWindow int `json:"recent_window"`

	// CollectorTimeout bounds each collector's total runtime.
	// Default: 10s.
	CollectorTimeout time.Duration `json:"collector_timeout"`
}

// ThresholdConfig contains rating and quality cutoffs.
type ThresholdConfig struct {
	// ProfileMinRating is the minimum user rating for an item to count
	// toward the taste profile. Default: 3.5.
	ProfileMinRating float64 `json:"profile_min_rating"`

	// SimilarSeedMinRating is the minimum user rating for a title to seed
	// the similar-titles collector. Default: 4.0.
	SimilarSeedMinRating float64 `json:"similar_seed_min_rating"`

	// DiscoverMinRating filters low-rated provider results from
	// genre-driven discovery calls. Default: 6.5.
	DiscoverMinRating float64 `json:"discover_min_rating"`

	// DiscoverMinVotes filters low-signal provider results.
	// Default: 200.
	DiscoverMinVotes int `json:"discover_min_votes"`

	// MoodHighAvg is the recent-average rating above which the mood
	// collector leans into the dominant recent genre. Default: 4.2.
	MoodHighAvg float64 `json:"mood_high_avg"`

	// MoodLowAvg is the recent-average rating below which the mood
	// collector pivots to a comedy/animation lift. Default: 2.8.
	MoodLowAvg float64 `json:"mood_low_avg"`

	// SimilarDefaultRating substitutes for a missing provider rating
	// when quality-scaling similar-title weights. Default: 7.0.
	SimilarDefaultRating float64 `json:"similar_default_rating"`

	// TrendingDefaultPopularity substitutes for a missing popularity
	// value when scaling trending weights. Default: 50.0.
	TrendingDefaultPopularity float64 `json:"trending_default_popularity"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether per-user response caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: SourceWeights{
			ContentBased:  40,
			SimilarTitles: 25,
			PeopleBased:   15,
			Mood:          10,
			Trending:      10,
		},
		Limits: LimitsConfig{
			MaxRecommendations:   30,
			ContentCap:           30,
			SimilarCap:           40,
			PeopleCap:            25,
			MoodCap:              20,
			TrendingCap:          30,
			BecauseYouWatchedCap: 12,
			SimilarSeeds:         5,
			SimilarConcurrency:   3,
			RecentWindow:         7,
			CollectorTimeout:     10 * time.Second,
		},
		Thresholds: ThresholdConfig{
			ProfileMinRating:          3.5,
			SimilarSeedMinRating:      4.0,
			DiscoverMinRating:         6.5,
			DiscoverMinVotes:          200,
			MoodHighAvg:               4.2,
			MoodLowAvg:                2.8,
			SimilarDefaultRating:      7.0,
			TrendingDefaultPopularity: 50.0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.ContentBased < 0 || c.Weights.SimilarTitles < 0 ||
		c.Weights.PeopleBased < 0 || c.Weights.Mood < 0 || c.Weights.Trending < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}

	if c.Limits.MaxRecommendations < 1 {
		return fmt.Errorf("limits.max_recommendations must be positive, got %d", c.Limits.MaxRecommendations)
	}
	if c.Limits.BecauseYouWatchedCap < 1 {
		return fmt.Errorf("limits.because_you_watched_cap must be positive, got %d", c.Limits.BecauseYouWatchedCap)
	}
	if c.Limits.SimilarSeeds < 1 {
		return fmt.Errorf("limits.similar_seeds must be positive, got %d", c.Limits.SimilarSeeds)
	}
	if c.Limits.SimilarConcurrency < 1 {
		return fmt.Errorf("limits.similar_concurrency must be positive, got %d", c.Limits.SimilarConcurrency)
	}
	if c.Limits.RecentWindow < 1 {
		return fmt.Errorf("limits.recent_window must be positive, got %d", c.Limits.RecentWindow)
	}
	if c.Limits.CollectorTimeout <= 0 {
		return fmt.Errorf("limits.collector_timeout must be positive, got %v", c.Limits.CollectorTimeout)
	}

	if c.Thresholds.ProfileMinRating < 0 || c.Thresholds.ProfileMinRating > 5 {
		return fmt.Errorf("thresholds.profile_min_rating must be in [0,5], got %f", c.Thresholds.ProfileMinRating)
	}
	if c.Thresholds.MoodLowAvg >= c.Thresholds.MoodHighAvg {
		return fmt.Errorf("thresholds.mood_low_avg must be below mood_high_avg, got %f >= %f",
			c.Thresholds.MoodLowAvg, c.Thresholds.MoodHighAvg)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	out := *c
	return &out
}
