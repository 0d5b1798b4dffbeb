// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/reelscope/reelscope/internal/models"
	"github.com/reelscope/reelscope/internal/recommend"
)

// fakeEngine implements Recommender with injectable behavior.
type fakeEngine struct {
	recommendFn func(ctx context.Context, userID string) (*recommend.Response, error)
	becauseFn   func(ctx context.Context, tmdbID int, userID string) ([]models.Candidate, error)
	stats       recommend.Stats
}

func (f *fakeEngine) Recommend(ctx context.Context, userID string) (*recommend.Response, error) {
	if f.recommendFn == nil {
		return &recommend.Response{}, nil
	}
	return f.recommendFn(ctx, userID)
}

func (f *fakeEngine) BecauseYouWatched(ctx context.Context, tmdbID int, userID string) ([]models.Candidate, error) {
	if f.becauseFn == nil {
		return nil, nil
	}
	return f.becauseFn(ctx, tmdbID, userID)
}

func (f *fakeEngine) Stats() recommend.Stats {
	return f.stats
}

// fakeSearcher implements Searcher.
type fakeSearcher struct {
	searchFn func(ctx context.Context, query string) ([]models.Candidate, error)
}

func (f *fakeSearcher) SearchMovies(ctx context.Context, query string) ([]models.Candidate, error) {
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(ctx, query)
}

func newTestRouter(engine Recommender, searcher Searcher) http.Handler {
	return NewRouter(NewHandler(engine, searcher, "test"), RouterConfig{
		RateLimit: 10000,
	})
}

func doRequest(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec, &body
}

func TestGetRecommendationsSuccess(t *testing.T) {
	engine := &fakeEngine{
		recommendFn: func(_ context.Context, userID string) (*recommend.Response, error) {
			if userID != "alice" {
				t.Errorf("userID = %q, want alice", userID)
			}
			return &recommend.Response{
				Recommendations: []recommend.RankedItem{
					{
						Candidate:      models.Candidate{TMDBID: 1, Title: "Pick"},
						Score:          46,
						WhyRecommended: "Your Taste + Trending Now",
					},
				},
			}, nil
		},
	}

	rec, body := doRequest(t, newTestRouter(engine, &fakeSearcher{}), "/api/v1/recommendations/user/alice")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body.Status != "success" {
		t.Errorf("status field = %q", body.Status)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGetRecommendationsInvalidUser(t *testing.T) {
	engine := &fakeEngine{
		recommendFn: func(context.Context, string) (*recommend.Response, error) {
			return nil, recommend.ErrInvalidUserID
		},
	}

	rec, body := doRequest(t, newTestRouter(engine, &fakeSearcher{}), "/api/v1/recommendations/user/%20")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "INVALID_USER_ID" {
		t.Errorf("error = %+v, want INVALID_USER_ID", body.Error)
	}
}

func TestGetBecauseYouWatched(t *testing.T) {
	engine := &fakeEngine{
		becauseFn: func(_ context.Context, tmdbID int, userID string) ([]models.Candidate, error) {
			if tmdbID != 550 {
				t.Errorf("tmdbID = %d, want 550", tmdbID)
			}
			if userID != "bob" {
				t.Errorf("userID = %q, want bob", userID)
			}
			return []models.Candidate{{TMDBID: 1}}, nil
		},
	}

	rec, body := doRequest(t, newTestRouter(engine, &fakeSearcher{}),
		"/api/v1/recommendations/because/550?user_id=bob")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", rec.Code, body.Error)
	}
}

func TestGetBecauseYouWatchedBadID(t *testing.T) {
	rec, body := doRequest(t, newTestRouter(&fakeEngine{}, &fakeSearcher{}),
		"/api/v1/recommendations/because/notanumber")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "INVALID_TMDB_ID" {
		t.Errorf("error = %+v, want INVALID_TMDB_ID", body.Error)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	rec, body := doRequest(t, newTestRouter(&fakeEngine{}, &fakeSearcher{}), "/api/v1/search")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "MISSING_QUERY" {
		t.Errorf("error = %+v, want MISSING_QUERY", body.Error)
	}
}

func TestSearchProviderFailure(t *testing.T) {
	searcher := &fakeSearcher{
		searchFn: func(context.Context, string) ([]models.Candidate, error) {
			return nil, errors.New("tmdb down")
		},
	}

	rec, body := doRequest(t, newTestRouter(&fakeEngine{}, searcher), "/api/v1/search?query=matrix")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "SEARCH_ERROR" {
		t.Errorf("error = %+v, want SEARCH_ERROR", body.Error)
	}
}

func TestHealth(t *testing.T) {
	rec, body := doRequest(t, newTestRouter(&fakeEngine{}, &fakeSearcher{}), "/api/v1/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body.Status != "success" {
		t.Errorf("status field = %q", body.Status)
	}
}

func TestEngineStats(t *testing.T) {
	engine := &fakeEngine{stats: recommend.Stats{RequestCount: 7, CacheHits: 3}}

	rec, body := doRequest(t, newTestRouter(engine, &fakeSearcher{}), "/api/v1/recommendations/stats")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data, err := json.Marshal(body.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var stats recommend.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.RequestCount != 7 || stats.CacheHits != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGenerateETagStable(t *testing.T) {
	a := generateETag([]byte("payload"))
	b := generateETag([]byte("payload"))
	c := generateETag([]byte("different"))

	if a != b {
		t.Errorf("same payload produced different tags: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different payloads produced the same tag")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	got := sanitizeLogValue("line1\nline2\t")
	if got != "line1\\x0aline2\\x09" {
		t.Errorf("sanitized = %q", got)
	}
}
