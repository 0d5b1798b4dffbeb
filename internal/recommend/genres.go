// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import "strings"

// TMDB movie genre identifiers.
const (
	genreAction      = 28
	genreAdventure   = 12
	genreAnimation   = 16
	genreComedy      = 35
	genreCrime       = 80
	genreDocumentary = 99
	genreDrama       = 18
	genreFamily      = 10751
	genreFantasy     = 14
	genreHistory     = 36
	genreHorror      = 27
	genreMusic       = 10402
	genreMystery     = 9648
	genreRomance     = 10749
	genreSciFi       = 878
	genreThriller    = 53
	genreWar         = 10752
	genreWestern     = 37
)

// genreIDs maps lowercased genre names from watch history to TMDB genre
// identifiers. Names without a mapping are silently dropped.
var genreIDs = map[string]int{
	"action":          genreAction,
	"adventure":       genreAdventure,
	"animation":       genreAnimation,
	"comedy":          genreComedy,
	"crime":           genreCrime,
	"documentary":     genreDocumentary,
	"drama":           genreDrama,
	"family":          genreFamily,
	"fantasy":         genreFantasy,
	"history":         genreHistory,
	"horror":          genreHorror,
	"music":           genreMusic,
	"mystery":         genreMystery,
	"romance":         genreRomance,
	"science fiction": genreSciFi,
	"sci-fi":          genreSciFi,
	"thriller":        genreThriller,
	"war":             genreWar,
	"western":         genreWestern,
}

// mapGenreIDs converts genre names to provider ids, preserving order,
// dropping unmapped names and duplicates, capped at max entries.
func mapGenreIDs(names []string, max int) []int {
	out := make([]int, 0, max)
	seen := make(map[int]struct{}, max)

	for _, name := range names {
		id, ok := genreIDs[strings.ToLower(name)]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == max {
			break
		}
	}

	return out
}
