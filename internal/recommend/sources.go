// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"
	"sync"

	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/metrics"
	"github.com/reelscope/reelscope/internal/models"
)

// sourceResult is one collector's output. A failed collector produces an
// empty candidate list; err is kept for logging only and never propagates
// to the caller.
type sourceResult struct {
	source     Source
	candidates []models.Candidate
	err        error
}

// collectorInput bundles the per-request state every collector reads.
type collectorInput struct {
	profile *TasteProfile
	recent  []models.WatchedItem
	rated   []models.WatchedItem
	watched map[int]struct{}
}

// collectorFn produces candidates for one source.
type collectorFn func(ctx context.Context, in *collectorInput) ([]models.Candidate, error)

// collectAll runs every collector concurrently and returns results in the
// fixed source order: content, similar, people, mood, trending. The order
// determines which source gets first-contribution credit during blending.
//
// A collector failure degrades that source to zero candidates; it never
// fails the request.
func (e *Engine) collectAll(ctx context.Context, in *collectorInput) []sourceResult {
	type namedCollector struct {
		source Source
		fn     collectorFn
	}

	collectors := []namedCollector{
		{SourceContent, e.collectContent},
		{SourceSimilar, e.collectSimilar},
		{SourcePeople, e.collectPeople},
		{SourceMood, e.collectMood},
		{SourceTrending, e.collectTrending},
	}

	results := make([]sourceResult, len(collectors))

	var wg sync.WaitGroup
	for i, c := range collectors {
		wg.Add(1)
		go func(idx int, source Source, fn collectorFn) {
			defer wg.Done()

			collectCtx, cancel := context.WithTimeout(ctx, e.config.Limits.CollectorTimeout)
			defer cancel()

			candidates, err := fn(collectCtx, in)
			if err != nil {
				logging.Warn().
					Err(err).
					Str("source", string(source)).
					Msg("signal collector failed, degrading to empty")
				candidates = nil
			}

			metrics.SourceCandidatesTotal.WithLabelValues(string(source)).Add(float64(len(candidates)))
			results[idx] = sourceResult{source: source, candidates: candidates, err: err}
		}(i, c.source, c.fn)
	}
	wg.Wait()

	return results
}

// filterWatched drops candidates the user has already watched and entries
// without a provider id, deduplicates within the list, and caps the result.
func filterWatched(candidates []models.Candidate, watched map[int]struct{}, limit int) []models.Candidate {
	out := make([]models.Candidate, 0, len(candidates))
	seen := make(map[int]struct{}, len(candidates))

	for _, c := range candidates {
		if c.TMDBID == 0 {
			continue
		}
		if _, ok := watched[c.TMDBID]; ok {
			continue
		}
		if _, dup := seen[c.TMDBID]; dup {
			continue
		}
		seen[c.TMDBID] = struct{}{}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}

	return out
}
