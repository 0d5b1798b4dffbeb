// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"math"
	"sort"
	"strings"
)

// Blender merges per-source candidate lists into one score per candidate
// identity. A candidate appearing in multiple sources accumulates weight
// from each, so multi-signal agreement ranks higher.
type Blender struct {
	weights    SourceWeights
	thresholds ThresholdConfig
}

// NewBlender constructs a Blender with the given weighting scheme.
func NewBlender(weights SourceWeights, thresholds ThresholdConfig) *Blender {
	return &Blender{weights: weights, thresholds: thresholds}
}

// Blend accumulates every source's candidates into scored entries, keyed
// by provider id. Returned order is first-encounter order across the
// results slice; ranking happens in Assemble.
func (b *Blender) Blend(results []sourceResult) []ScoredCandidate {
	index := make(map[int]int)
	scored := make([]ScoredCandidate, 0, 64)

	for _, result := range results {
		for _, candidate := range result.candidates {
			weight := b.effectiveWeight(result.source, candidate.Rating, candidate.Popularity)

			pos, ok := index[candidate.TMDBID]
			if !ok {
				index[candidate.TMDBID] = len(scored)
				scored = append(scored, ScoredCandidate{
					Candidate: candidate,
					Score:     weight,
					Sources:   []Source{result.source},
				})
				continue
			}

			scored[pos].Score += weight
			if !hasSource(scored[pos].Sources, result.source) {
				scored[pos].Sources = append(scored[pos].Sources, result.source)
			}
		}
	}

	return scored
}

// effectiveWeight applies the per-source multiplier. Similar titles scale
// with provider rating and trending with popularity; the other sources
// contribute their flat weight.
func (b *Blender) effectiveWeight(source Source, rating, popularity float64) float64 {
	switch source {
	case SourceContent:
		return b.weights.ContentBased
	case SourceSimilar:
		if rating <= 0 {
			rating = b.thresholds.SimilarDefaultRating
		}
		return b.weights.SimilarTitles * rating / 10.0
	case SourcePeople:
		return b.weights.PeopleBased
	case SourceMood:
		return b.weights.Mood
	case SourceTrending:
		if popularity <= 0 {
			popularity = b.thresholds.TrendingDefaultPopularity
		}
		return b.weights.Trending * popularity / 100.0
	default:
		return 0
	}
}

// Assemble ranks scored candidates descending by score, truncates to max,
// and formats the display score and explanation string. Ties keep blend
// order, which is deterministic for fixed source ordering.
func Assemble(scored []ScoredCandidate, max int) []RankedItem {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > max {
		scored = scored[:max]
	}

	items := make([]RankedItem, 0, len(scored))
	for _, sc := range scored {
		items = append(items, RankedItem{
			Candidate:      sc.Candidate,
			Score:          int(math.Round(sc.Score)),
			WhyRecommended: joinLabels(sc.Sources),
		})
	}
	return items
}

// joinLabels renders source labels in first-contribution order.
func joinLabels(sources []Source) string {
	labels := make([]string, 0, len(sources))
	for _, s := range sources {
		labels = append(labels, s.Label())
	}
	return strings.Join(labels, " + ")
}

func hasSource(sources []Source, s Source) bool {
	for _, have := range sources {
		if have == s {
			return true
		}
	}
	return false
}
