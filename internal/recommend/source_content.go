// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"

	"github.com/reelscope/reelscope/internal/models"
)

// maxContentGenres bounds how many top genres go into the discovery
// filter. Narrower than the profile's top-genre list on purpose: a wide
// genre union dilutes the match.
const maxContentGenres = 3

// collectContent discovers titles in the user's top genres, sorted by
// provider rating with a quality floor. Skipped entirely on cold start.
func (e *Engine) collectContent(ctx context.Context, in *collectorInput) ([]models.Candidate, error) {
	if in.profile == nil || len(in.profile.TopGenres) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(in.profile.TopGenres))
	for _, g := range in.profile.TopGenres {
		names = append(names, g.Genre)
	}
	genreIDs := mapGenreIDs(names, maxContentGenres)
	if len(genreIDs) == 0 {
		return nil, nil
	}

	candidates, err := e.gateway.Discover(ctx, models.DiscoverFilter{
		GenreIDs:  genreIDs,
		SortBy:    sortByRating,
		MinRating: e.config.Thresholds.DiscoverMinRating,
		MinVotes:  e.config.Thresholds.DiscoverMinVotes,
	})
	if err != nil {
		return nil, err
	}

	return filterWatched(candidates, in.watched, e.config.Limits.ContentCap), nil
}
