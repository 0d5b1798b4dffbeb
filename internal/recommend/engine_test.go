// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/reelscope/reelscope/internal/history"
	"github.com/reelscope/reelscope/internal/models"
)

func TestNewEngineRequiresCollaborators(t *testing.T) {
	if _, err := NewEngine(DefaultConfig(), nil, &fakeGateway{}); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := NewEngine(DefaultConfig(), history.NewMemoryStore(), nil); err == nil {
		t.Error("expected error for nil gateway")
	}

	bad := DefaultConfig()
	bad.Limits.MaxRecommendations = 0
	if _, err := NewEngine(bad, history.NewMemoryStore(), &fakeGateway{}); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestRecommendInvalidUserID(t *testing.T) {
	engine := newTestEngine(t, history.NewMemoryStore(), &fakeGateway{}, nil)

	for _, userID := range []string{"", "   ", "\t"} {
		if _, err := engine.Recommend(context.Background(), userID); !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("Recommend(%q) error = %v, want ErrInvalidUserID", userID, err)
		}
	}
}

func TestRecommendColdStart(t *testing.T) {
	gw := &fakeGateway{
		trendingFn: func(string) ([]models.Candidate, error) {
			return candidates(500, 10), nil
		},
		popularFn: func() ([]models.Candidate, error) {
			return candidates(600, 10), nil
		},
	}
	engine := newTestEngine(t, history.NewMemoryStore(), gw, nil)

	resp, err := engine.Recommend(context.Background(), "fresh-user")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.Profile != nil {
		t.Errorf("Profile = %+v, want nil for cold start", resp.Profile)
	}
	if resp.Stats.ContentBased != 0 || resp.Stats.PeopleBased != 0 {
		t.Errorf("profile-driven sources ran on cold start: %+v", resp.Stats)
	}
	if resp.Stats.Trending == 0 {
		t.Error("trending should still populate on cold start")
	}
	if len(resp.Recommendations) == 0 {
		t.Error("cold start should still yield trending-backed recommendations")
	}
}

func TestRecommendCapAndExclusion(t *testing.T) {
	store := history.NewMemoryStore()
	watched := []models.WatchedItem{
		ratedItem(101, 5.0, []string{"Drama"}, "Jane Doe"),
		ratedItem(102, 4.5, []string{"Drama", "Thriller"}, "Jane Doe"),
		ratedItem(103, 4.0, []string{"Crime"}, "John Roe"),
	}
	store.Add("viewer", watched...)

	gw := &fakeGateway{
		discoverFn: func(models.DiscoverFilter) ([]models.Candidate, error) {
			// Includes already-watched ids that must never resurface.
			out := candidates(95, 50)
			return out, nil
		},
		recommendedFn: func(tmdbID int) ([]models.Candidate, error) {
			return candidates(tmdbID*10, 10), nil
		},
		trendingFn: func(string) ([]models.Candidate, error) {
			return candidates(700, 20), nil
		},
		popularFn: func() ([]models.Candidate, error) {
			return candidates(800, 20), nil
		},
	}
	engine := newTestEngine(t, store, gw, nil)

	resp, err := engine.Recommend(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(resp.Recommendations) > 30 {
		t.Errorf("len = %d, want at most 30", len(resp.Recommendations))
	}
	for _, rec := range resp.Recommendations {
		for _, w := range watched {
			if rec.TMDBID == w.TMDBID {
				t.Errorf("watched item %d resurfaced in recommendations", w.TMDBID)
			}
		}
		if rec.WhyRecommended == "" {
			t.Errorf("candidate %d has no explanation", rec.TMDBID)
		}
	}

	if resp.Profile == nil {
		t.Fatal("expected a profile summary")
	}
	if resp.Profile.TotalRated != 3 {
		t.Errorf("TotalRated = %d, want 3", resp.Profile.TotalRated)
	}
}

func TestRecommendPartialSourceFailure(t *testing.T) {
	store := history.NewMemoryStore()
	store.Add("viewer",
		ratedItem(1, 5.0, []string{"Drama"}, "Jane Doe"),
		ratedItem(2, 4.5, []string{"Drama"}, "Jane Doe"),
	)

	gw := &fakeGateway{
		discoverFn: func(models.DiscoverFilter) ([]models.Candidate, error) {
			return candidates(100, 10), nil
		},
		recommendedFn: func(int) ([]models.Candidate, error) {
			return nil, errors.New("provider down")
		},
		trendingFn: func(string) ([]models.Candidate, error) {
			return candidates(700, 10), nil
		},
		popularFn: func() ([]models.Candidate, error) {
			return candidates(800, 10), nil
		},
	}
	engine := newTestEngine(t, store, gw, nil)

	resp, err := engine.Recommend(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.Stats.TMDBSimilar != 0 {
		t.Errorf("Stats.TMDBSimilar = %d, want 0 after total source failure", resp.Stats.TMDBSimilar)
	}
	if len(resp.Recommendations) == 0 {
		t.Error("remaining sources should still populate the list")
	}
}

func TestRecommendCache(t *testing.T) {
	store := history.NewMemoryStore()
	store.Add("viewer", ratedItem(1, 5.0, []string{"Drama"}, "Jane Doe"))

	gw := &fakeGateway{
		discoverFn: func(models.DiscoverFilter) ([]models.Candidate, error) {
			return candidates(100, 10), nil
		},
	}
	engine := newTestEngine(t, store, gw, func(c *Config) {
		c.Cache.Enabled = true
	})

	first, err := engine.Recommend(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("first Recommend: %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first call reported a cache hit")
	}

	callsAfterFirst := len(gw.discoverCalls)

	second, err := engine.Recommend(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("second Recommend: %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("second call missed the cache")
	}
	if got := len(gw.discoverCalls); got != callsAfterFirst {
		t.Errorf("cached call reached the provider: %d calls, want %d", got, callsAfterFirst)
	}
	if second.Metadata.RequestID == first.Metadata.RequestID {
		t.Error("cached response reused the original request id")
	}

	engine.InvalidateUser("viewer")
	third, err := engine.Recommend(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("third Recommend: %v", err)
	}
	if third.Metadata.CacheHit {
		t.Error("invalidated user still served from cache")
	}

	stats := engine.Stats()
	if stats.RequestCount != 3 {
		t.Errorf("RequestCount = %d, want 3", stats.RequestCount)
	}
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}
	if stats.CacheMisses != 2 {
		t.Errorf("CacheMisses = %d, want 2", stats.CacheMisses)
	}
}

func TestBecauseYouWatched(t *testing.T) {
	store := history.NewMemoryStore()
	store.Add("viewer", ratedItem(900, 4.0, []string{"Drama"}, ""))

	gw := &fakeGateway{
		similarFn: func(int) ([]models.Candidate, error) {
			return candidates(900, 10), nil
		},
		recommendedFn: func(int) ([]models.Candidate, error) {
			return candidates(905, 10), nil
		},
	}
	engine := newTestEngine(t, store, gw, nil)

	items, err := engine.BecauseYouWatched(context.Background(), 901, "viewer")
	if err != nil {
		t.Fatalf("BecauseYouWatched: %v", err)
	}

	if len(items) > 12 {
		t.Errorf("len = %d, want at most 12", len(items))
	}
	for _, item := range items {
		if item.TMDBID == 900 {
			t.Error("watched title resurfaced")
		}
		if item.TMDBID == 901 {
			t.Error("seed title recommended to itself")
		}
	}
}

func TestBecauseYouWatchedInvalidUser(t *testing.T) {
	engine := newTestEngine(t, history.NewMemoryStore(), &fakeGateway{}, nil)

	if _, err := engine.BecauseYouWatched(context.Background(), 1, ""); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("error = %v, want ErrInvalidUserID", err)
	}
}

func TestBecauseYouWatchedBothLookupsFail(t *testing.T) {
	gw := &fakeGateway{
		similarFn: func(int) ([]models.Candidate, error) {
			return nil, errors.New("down")
		},
		recommendedFn: func(int) ([]models.Candidate, error) {
			return nil, errors.New("down")
		},
	}
	engine := newTestEngine(t, history.NewMemoryStore(), gw, nil)

	items, err := engine.BecauseYouWatched(context.Background(), 1, "viewer")
	if err != nil {
		t.Fatalf("lookup failures must degrade, not error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}
