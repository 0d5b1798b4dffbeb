// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"
	"strings"

	"github.com/reelscope/reelscope/internal/models"
)

// collectMood picks a discovery filter from the user's recent rating trend
// and genre mix. Unlike the profile-driven collectors it looks at the
// recent window regardless of rating threshold, so it still works for
// users whose ratings are all low.
//
// Branches:
//   - high recent average: lean into the dominant recent genre
//     (action over drama over a comedy/family default)
//   - low recent average: pivot to comedy/animation sorted by popularity
//   - otherwise: drama/thriller, with a coin-flip substitution to pure
//     comedy when comedy is absent from the recent mix
func (e *Engine) collectMood(ctx context.Context, in *collectorInput) ([]models.Candidate, error) {
	if len(in.recent) == 0 {
		return nil, nil
	}

	recent := in.recent
	if len(recent) > e.config.Limits.RecentWindow {
		recent = recent[:e.config.Limits.RecentWindow]
	}

	var sum float64
	counts := make(map[int]int)
	for _, item := range recent {
		sum += item.MyRating
		for _, genre := range item.Genres {
			if id, ok := genreIDs[strings.ToLower(genre)]; ok {
				counts[id]++
			}
		}
	}
	avg := sum / float64(len(recent))

	filterGenres, sortBy := e.moodFilter(avg, counts)

	candidates, err := e.gateway.Discover(ctx, models.DiscoverFilter{
		GenreIDs:  filterGenres,
		SortBy:    sortBy,
		MinRating: e.config.Thresholds.DiscoverMinRating,
		MinVotes:  e.config.Thresholds.DiscoverMinVotes,
	})
	if err != nil {
		return nil, err
	}

	return filterWatched(candidates, in.watched, e.config.Limits.MoodCap), nil
}

// moodFilter resolves the discovery genres and sort key for the recent
// average rating and genre counts.
func (e *Engine) moodFilter(avg float64, counts map[int]int) ([]int, string) {
	switch {
	case avg >= e.config.Thresholds.MoodHighAvg:
		// On a good streak, double down on what is working.
		switch {
		case counts[genreAction] > 0 && counts[genreAction] >= counts[genreDrama]:
			return []int{genreAction}, sortByRating
		case counts[genreDrama] > 0:
			return []int{genreDrama}, sortByRating
		default:
			return []int{genreComedy, genreFamily}, sortByRating
		}

	case avg <= e.config.Thresholds.MoodLowAvg:
		// Rough stretch, lift the mood with crowd-pleasers.
		return []int{genreComedy, genreAnimation}, sortByPopularity

	default:
		if counts[genreComedy] == 0 && e.flipMoodCoin() {
			return []int{genreComedy}, sortByRating
		}
		return []int{genreDrama, genreThriller}, sortByRating
	}
}

// flipMoodCoin returns true half the time, using the engine's seeded
// generator so tests can pin the outcome.
func (e *Engine) flipMoodCoin() bool {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(2) == 0
}
