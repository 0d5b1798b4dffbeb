// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package history

import (
	"context"
	"sort"
	"sync"

	"github.com/reelscope/reelscope/internal/models"
)

// MemoryStore is an in-memory Store used in tests and when the server runs
// without a database. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]models.WatchedItem
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]models.WatchedItem)}
}

// Add appends items to a user's history.
func (s *MemoryStore) Add(userID string, items ...models.WatchedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = append(s.items[userID], items...)
}

// GetRatedItems returns items rated at or above minRating, most recently
// watched first.
func (s *MemoryStore) GetRatedItems(_ context.Context, userID string, minRating float64) ([]models.WatchedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.WatchedItem
	for _, it := range s.items[userID] {
		if it.MyRating >= minRating {
			out = append(out, it)
		}
	}
	sortByWatchedAtDesc(out)
	return out, nil
}

// GetWatchedTMDBIDs returns every TMDB id in the user's history.
func (s *MemoryStore) GetWatchedTMDBIDs(_ context.Context, userID string) (map[int]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[int]struct{}, len(s.items[userID]))
	for _, it := range s.items[userID] {
		ids[it.TMDBID] = struct{}{}
	}
	return ids, nil
}

// GetRecentItems returns up to limit items, most recently watched first.
func (s *MemoryStore) GetRecentItems(_ context.Context, userID string, limit int) ([]models.WatchedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WatchedItem, len(s.items[userID]))
	copy(out, s.items[userID])
	sortByWatchedAtDesc(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// sortByWatchedAtDesc sorts items most recent first, stably so that equal
// timestamps keep insertion order.
func sortByWatchedAtDesc(items []models.WatchedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].WatchedAt.After(items[j].WatchedAt)
	})
}
