// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"

	"github.com/reelscope/reelscope/internal/models"
)

// Gateway is the metadata-provider interface the engine consumes. Every
// method returns candidates already normalized to models.Candidate; the
// engine never sees raw provider shapes and never branches on which
// endpoint produced an item.
//
// Implemented by tmdb.Client and tmdb.BreakerClient. Defined here so the
// engine has no dependency on the provider package.
type Gateway interface {
	// Discover returns titles matching a genre/sort/quality filter.
	Discover(ctx context.Context, filter models.DiscoverFilter) ([]models.Candidate, error)

	// Similar returns titles similar to the given one.
	Similar(ctx context.Context, tmdbID int) ([]models.Candidate, error)

	// Recommended returns the provider's recommendations for a title.
	Recommended(ctx context.Context, tmdbID int) ([]models.Candidate, error)

	// Trending returns the trending listing for a window ("day"/"week").
	Trending(ctx context.Context, window string) ([]models.Candidate, error)

	// Popular returns the current popular listing.
	Popular(ctx context.Context) ([]models.Candidate, error)
}

// Provider sort keys used by the collectors.
const (
	sortByRating     = "vote_average.desc"
	sortByPopularity = "popularity.desc"
)
