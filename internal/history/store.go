// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

// Package history provides read access to a user's watch history.
//
// The recommendation core treats the history store as a read-only
// collaborator: it never writes, and queries only the three shapes below.
package history

import (
	"context"

	"github.com/reelscope/reelscope/internal/models"
)

// Store is the read-only watch-history interface consumed by the
// recommendation engine.
type Store interface {
	// GetRatedItems returns all of a user's watched items with
	// MyRating >= minRating, in watch-date descending order.
	GetRatedItems(ctx context.Context, userID string, minRating float64) ([]models.WatchedItem, error)

	// GetWatchedTMDBIDs returns the set of TMDB ids the user has watched,
	// regardless of rating. Every recommendation source filters against
	// this set.
	GetWatchedTMDBIDs(ctx context.Context, userID string) (map[int]struct{}, error)

	// GetRecentItems returns up to limit items ordered by watch date
	// descending, regardless of rating.
	GetRecentItems(ctx context.Context, userID string, limit int) ([]models.WatchedItem, error)
}
