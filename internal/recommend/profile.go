// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"sort"

	"github.com/reelscope/reelscope/internal/models"
)

const (
	maxTopGenres         = 5
	maxFavoriteDirectors = 8
	maxFavoriteActors    = 12
	maxCastCredits       = 5
)

// BuildTasteProfile derives a taste profile from the user's rated history.
// Only items rated at or above minRating contribute. Returns nil when no
// item qualifies, which callers treat as a cold start.
func BuildTasteProfile(items []models.WatchedItem, minRating float64) *TasteProfile {
	genreScores := make(map[string]float64)
	directorWeights := make(map[string]float64)
	actorWeights := make(map[string]float64)

	// Encounter order for stable tie-breaking.
	var genreOrder, directorOrder, actorOrder []string

	var ratingSum float64
	rated := 0

	for _, item := range items {
		if item.MyRating < minRating {
			continue
		}
		rated++
		ratingSum += item.MyRating

		for _, genre := range item.Genres {
			if genre == "" {
				continue
			}
			if _, seen := genreScores[genre]; !seen {
				genreOrder = append(genreOrder, genre)
			}
			genreScores[genre] += item.MyRating / 5.0
		}

		if item.Director != "" {
			if _, seen := directorWeights[item.Director]; !seen {
				directorOrder = append(directorOrder, item.Director)
			}
			directorWeights[item.Director] += item.MyRating
		}

		cast := item.Cast
		if len(cast) > maxCastCredits {
			cast = cast[:maxCastCredits]
		}
		for _, actor := range cast {
			if actor == "" {
				continue
			}
			if _, seen := actorWeights[actor]; !seen {
				actorOrder = append(actorOrder, actor)
			}
			actorWeights[actor] += item.MyRating
		}
	}

	if rated == 0 {
		return nil
	}

	// Normalize genre scores so the strongest affinity is exactly 1.0.
	var maxScore float64
	for _, score := range genreScores {
		if score > maxScore {
			maxScore = score
		}
	}
	affinity := make(map[string]float64, len(genreScores))
	if maxScore > 0 {
		for genre, score := range genreScores {
			affinity[genre] = score / maxScore
		}
	}

	return &TasteProfile{
		GenreAffinity:     affinity,
		TopGenres:         topGenres(affinity, genreOrder, maxTopGenres),
		FavoriteDirectors: topNames(directorWeights, directorOrder, maxFavoriteDirectors),
		FavoriteActors:    topNames(actorWeights, actorOrder, maxFavoriteActors),
		TotalRated:        rated,
		AverageRating:     ratingSum / float64(rated),
	}
}

// topGenres returns up to max genres descending by score. order preserves
// first-encounter position so equal scores rank deterministically.
func topGenres(scores map[string]float64, order []string, max int) []GenreScore {
	ranked := make([]GenreScore, 0, len(order))
	for _, genre := range order {
		ranked = append(ranked, GenreScore{Genre: genre, Score: scores[genre]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// topNames returns up to max names descending by accumulated weight.
func topNames(weights map[string]float64, order []string, max int) []NameWeight {
	ranked := make([]NameWeight, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, NameWeight{Name: name, Weight: weights[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
