// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"
	"sync"

	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/models"
)

// trendingWindow is the provider window the trending collector fetches.
const trendingWindow = "week"

// collectTrending fetches the provider's trending and popular listings in
// parallel and concatenates them, trending first. It never reads the
// taste profile, so cold-start users always have at least this source.
//
// Either fetch may fail independently; the collector errors only when
// both do.
func (e *Engine) collectTrending(ctx context.Context, in *collectorInput) ([]models.Candidate, error) {
	var (
		wg                sync.WaitGroup
		trending, popular []models.Candidate
		trendErr, popErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		trending, trendErr = e.gateway.Trending(ctx, trendingWindow)
	}()
	go func() {
		defer wg.Done()
		popular, popErr = e.gateway.Popular(ctx)
	}()
	wg.Wait()

	if trendErr != nil && popErr != nil {
		return nil, trendErr
	}
	if trendErr != nil {
		logging.Debug().Err(trendErr).Msg("trending listing failed, using popular only")
	}
	if popErr != nil {
		logging.Debug().Err(popErr).Msg("popular listing failed, using trending only")
	}

	merged := make([]models.Candidate, 0, len(trending)+len(popular))
	merged = append(merged, trending...)
	merged = append(merged, popular...)

	return filterWatched(merged, in.watched, e.config.Limits.TrendingCap), nil
}
