// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/models"
)

// collectSimilar fans out provider recommendation lookups for the user's
// top-rated titles. Seed order is rating descending with history order
// breaking ties; results merge in seed order so the strongest seed's
// matches survive the cap first.
//
// Per-seed failures are logged and skipped. The collector only errors when
// the context dies before any seed completes.
func (e *Engine) collectSimilar(ctx context.Context, in *collectorInput) ([]models.Candidate, error) {
	seeds := similarSeeds(in.rated, e.config.Thresholds.SimilarSeedMinRating, e.config.Limits.SimilarSeeds)
	if len(seeds) == 0 {
		return nil, nil
	}

	perSeed := make([][]models.Candidate, len(seeds))

	sem := semaphore.NewWeighted(e.config.Limits.SimilarConcurrency)
	var wg sync.WaitGroup

	for i, seed := range seeds {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(idx int, item models.WatchedItem) {
			defer wg.Done()
			defer sem.Release(1)

			candidates, err := e.gateway.Recommended(ctx, item.TMDBID)
			if err != nil {
				logging.Debug().
					Err(err).
					Int("tmdb_id", item.TMDBID).
					Str("title", item.Title).
					Msg("similar-titles seed lookup failed")
				return
			}
			perSeed[idx] = candidates
		}(i, seed)
	}
	wg.Wait()

	merged := make([]models.Candidate, 0, len(seeds)*20)
	for _, batch := range perSeed {
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Rating > merged[j].Rating
	})

	return filterWatched(merged, in.watched, e.config.Limits.SimilarCap), nil
}

// similarSeeds picks up to max items rated at or above minRating,
// descending by the user's rating. Ties keep history order.
func similarSeeds(rated []models.WatchedItem, minRating float64, max int) []models.WatchedItem {
	seeds := make([]models.WatchedItem, 0, len(rated))
	for _, item := range rated {
		if item.MyRating >= minRating && item.TMDBID != 0 {
			seeds = append(seeds, item)
		}
	}
	sort.SliceStable(seeds, func(i, j int) bool {
		return seeds[i].MyRating > seeds[j].MyRating
	})
	if len(seeds) > max {
		seeds = seeds[:max]
	}
	return seeds
}
