// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package models

import "time"

// WatchedItem is a single entry in a user's watch history.
// It is owned by the history store; the recommendation core never mutates it.
type WatchedItem struct {
	// TMDBID is the metadata provider identifier for the title.
	TMDBID int `json:"tmdbId" bson:"tmdbId"`

	// Title is the display title.
	Title string `json:"title" bson:"title"`

	// MyRating is the user's rating on a 0-5 scale.
	MyRating float64 `json:"myRating" bson:"myRating"`

	// Genres is the list of genre names attached at log time.
	Genres []string `json:"genres" bson:"genres"`

	// Director is the credited director, empty when unknown.
	Director string `json:"director,omitempty" bson:"director,omitempty"`

	// Cast lists actor names in billing order.
	Cast []string `json:"cast,omitempty" bson:"cast,omitempty"`

	// WatchedAt is when the user logged the item.
	WatchedAt time.Time `json:"watchedAt" bson:"watchedAt"`
}

// Candidate is a normalized metadata-provider item eligible for
// recommendation. Every provider endpoint (search, discover, trending,
// similar, popular) is normalized to this one shape at the gateway boundary.
// TMDBID is the only identity field; title and year are never used for
// deduplication.
type Candidate struct {
	TMDBID       int     `json:"tmdbId"`
	Title        string  `json:"title"`
	Year         int     `json:"year,omitempty"`
	PosterPath   string  `json:"posterPath,omitempty"`
	BackdropPath string  `json:"backdropPath,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
}

// DiscoverFilter describes a provider discovery query.
type DiscoverFilter struct {
	// GenreIDs restricts results to the given provider genre identifiers.
	GenreIDs []int

	// SortBy is the provider sort key (e.g. "vote_average.desc",
	// "popularity.desc").
	SortBy string

	// MinRating drops titles below this provider vote average. Zero means
	// no threshold.
	MinRating float64

	// MinVotes drops titles with fewer votes, filtering out low-signal
	// entries. Zero means no threshold.
	MinVotes int
}
