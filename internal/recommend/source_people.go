// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"

	"github.com/reelscope/reelscope/internal/models"
)

// directorGenres maps well-known directors to the genre pair most
// characteristic of their filmography. The provider's discovery endpoint
// has no crew filter, so genre proxying is the closest available signal.
//
// TODO: replace with /person search + discover with_crew once the gateway
// grows a person lookup.
var directorGenres = map[string][2]int{
	"Christopher Nolan": {genreSciFi, genreThriller},
	"Quentin Tarantino": {genreCrime, genreThriller},
	"Martin Scorsese":   {genreCrime, genreDrama},
	"Steven Spielberg":  {genreAdventure, genreSciFi},
	"Denis Villeneuve":  {genreSciFi, genreMystery},
	"Greta Gerwig":      {genreComedy, genreDrama},
	"Wes Anderson":      {genreComedy, genreFamily},
	"David Fincher":     {genreThriller, genreMystery},
}

// defaultDirectorGenres covers directors absent from the table.
var defaultDirectorGenres = [2]int{genreDrama, genreThriller}

// collectPeople discovers titles in the genres characteristic of the
// user's favorite director. Skipped when the profile has no directors.
func (e *Engine) collectPeople(ctx context.Context, in *collectorInput) ([]models.Candidate, error) {
	if in.profile == nil || len(in.profile.FavoriteDirectors) == 0 {
		return nil, nil
	}

	favorite := in.profile.FavoriteDirectors[0].Name
	genres, ok := directorGenres[favorite]
	if !ok {
		genres = defaultDirectorGenres
	}

	candidates, err := e.gateway.Discover(ctx, models.DiscoverFilter{
		GenreIDs:  genres[:],
		SortBy:    sortByRating,
		MinRating: e.config.Thresholds.DiscoverMinRating,
		MinVotes:  e.config.Thresholds.DiscoverMinVotes,
	})
	if err != nil {
		return nil, err
	}

	return filterWatched(candidates, in.watched, e.config.Limits.PeopleCap), nil
}
