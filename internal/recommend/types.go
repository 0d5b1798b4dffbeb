// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"time"

	"github.com/reelscope/reelscope/internal/models"
)

// Source identifies one of the five signal sources contributing candidates.
// The constant values double as the JSON stat keys.
type Source string

const (
	// SourceContent is discovery filtered by the user's top genres.
	SourceContent Source = "contentBased"
	// SourceSimilar is provider recommendations for the user's top-rated titles.
	SourceSimilar Source = "tmdbSimilar"
	// SourcePeople is discovery filtered by the favorite director's typical genres.
	SourcePeople Source = "peopleBased"
	// SourceMood is discovery driven by the recent rating trend and genre mix.
	SourceMood Source = "moodBased"
	// SourceTrending is the provider's trending and popular listings.
	SourceTrending Source = "trending"
)

// Label returns the human-readable name shown in explanation strings.
func (s Source) Label() string {
	switch s {
	case SourceContent:
		return "Your Taste"
	case SourceSimilar:
		return "Similar Movies"
	case SourcePeople:
		return "Favorite Directors"
	case SourceMood:
		return "Mood Pick"
	case SourceTrending:
		return "Trending Now"
	default:
		return string(s)
	}
}

// GenreScore pairs a genre name with its affinity score.
type GenreScore struct {
	Genre string  `json:"genre"`
	Score float64 `json:"score"`
}

// NameWeight pairs a person's name with their accumulated rating weight.
type NameWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// TasteProfile is the per-user affinity summary derived from rating history.
// Ephemeral: rebuilt per request, never persisted.
type TasteProfile struct {
	// GenreAffinity maps genre name to a score in [0,1], normalized so
	// the maximum entry equals 1.0.
	GenreAffinity map[string]float64 `json:"genreAffinity"`

	// TopGenres holds up to 5 genres, descending by score. Ties keep
	// first-encountered order.
	TopGenres []GenreScore `json:"topGenres"`

	// FavoriteDirectors holds up to 8 directors, weighted by the sum of
	// the user's ratings across that director's items.
	FavoriteDirectors []NameWeight `json:"favoriteDirectors"`

	// FavoriteActors holds up to 12 actors, weighted like directors but
	// considering only the first 5 cast credits per item.
	FavoriteActors []NameWeight `json:"favoriteActors"`

	// TotalRated is the number of items that met the rating threshold.
	TotalRated int `json:"totalRated"`

	// AverageRating is the mean rating across those items.
	AverageRating float64 `json:"averageRating"`
}

// ScoredCandidate is a candidate with its blended score and the sources
// that contributed to it, in first-contribution order.
type ScoredCandidate struct {
	Candidate models.Candidate
	Score     float64
	Sources   []Source
}

// RankedItem is a final recommendation as returned to the API layer.
type RankedItem struct {
	models.Candidate

	// Score is the blended score rounded to the nearest integer.
	Score int `json:"score"`

	// WhyRecommended joins the contributing source labels with " + ".
	WhyRecommended string `json:"whyRecommended"`
}

// ProfileSummary is the trimmed taste profile included in responses.
type ProfileSummary struct {
	TopGenres         []GenreScore `json:"topGenres"`
	FavoriteDirectors []NameWeight `json:"favoriteDirectors"`
	TotalRated        int          `json:"totalRated"`
}

// SourceCounts reports raw per-source candidate counts before blending.
// Diagnostic only; never used for ranking.
type SourceCounts struct {
	ContentBased int `json:"contentBased"`
	TMDBSimilar  int `json:"tmdbSimilar"`
	PeopleBased  int `json:"peopleBased"`
	MoodBased    int `json:"moodBased"`
	Trending     int `json:"trending"`
}

// set records the count for a source.
func (c *SourceCounts) set(s Source, n int) {
	switch s {
	case SourceContent:
		c.ContentBased = n
	case SourceSimilar:
		c.TMDBSimilar = n
	case SourcePeople:
		c.PeopleBased = n
	case SourceMood:
		c.MoodBased = n
	case SourceTrending:
		c.Trending = n
	}
}

// Response is the result of a recommendation request.
type Response struct {
	// Recommendations is the ranked list, at most the configured cap.
	Recommendations []RankedItem `json:"recommendations"`

	// Profile is the trimmed taste profile, or nil for cold-start users.
	Profile *ProfileSummary `json:"profile"`

	// Stats holds the raw per-source candidate counts.
	Stats SourceCounts `json:"stats"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	LatencyMS int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats reports engine counters for the diagnostics endpoint.
type Stats struct {
	RequestCount int64 `json:"request_count"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	ErrorCount   int64 `json:"error_count"`
}
