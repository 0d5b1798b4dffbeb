// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelscope/reelscope/internal/models"
	"github.com/reelscope/reelscope/internal/recommend"
)

// handlerTimeout bounds a single request's total engine work.
const handlerTimeout = 30 * time.Second

// Recommender is the engine surface the handlers consume.
type Recommender interface {
	Recommend(ctx context.Context, userID string) (*recommend.Response, error)
	BecauseYouWatched(ctx context.Context, tmdbID int, userID string) ([]models.Candidate, error)
	Stats() recommend.Stats
}

// Searcher is the provider search surface exposed as a passthrough.
type Searcher interface {
	SearchMovies(ctx context.Context, query string) ([]models.Candidate, error)
}

// Handler holds the dependencies for all HTTP endpoints.
type Handler struct {
	engine    Recommender
	searcher  Searcher
	version   string
	startedAt time.Time
}

// NewHandler creates a Handler.
func NewHandler(engine Recommender, searcher Searcher, version string) *Handler {
	return &Handler{
		engine:    engine,
		searcher:  searcher,
		version:   version,
		startedAt: time.Now(),
	}
}

// GetRecommendations handles GET /api/v1/recommendations/user/{userID}
// Returns the personalized ranked recommendation list for a user.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, userID)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidUserID) {
			respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Invalid user ID", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: resp.Metadata.LatencyMS,
			Cached:      resp.Metadata.CacheHit,
		},
	})
}

// GetBecauseYouWatched handles GET /api/v1/recommendations/because/{tmdbID}
// Returns similar and recommended titles for one watched title.
func (h *Handler) GetBecauseYouWatched(w http.ResponseWriter, r *http.Request) {
	tmdbIDStr := chi.URLParam(r, "tmdbID")
	tmdbID, err := strconv.Atoi(tmdbIDStr)
	if err != nil || tmdbID < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_TMDB_ID", "Invalid TMDB ID", err)
		return
	}

	userID := r.URL.Query().Get("user_id")

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	items, err := h.engine.BecauseYouWatched(ctx, tmdbID, userID)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidUserID) {
			respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "Invalid user ID", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}

	if items == nil {
		items = []models.Candidate{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"items": items,
			"count": len(items),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// GetEngineStats handles GET /api/v1/recommendations/stats
// Returns engine diagnostic counters.
func (h *Handler) GetEngineStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.engine.Stats(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Search handles GET /api/v1/search?query=...
// Provider title search passthrough.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter 'query' is required", nil)
		return
	}
	if len(query) > 256 {
		respondError(w, http.StatusBadRequest, "QUERY_TOO_LONG", "Query must be at most 256 characters", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	items, err := h.searcher.SearchMovies(ctx, query)
	if err != nil {
		respondError(w, http.StatusBadGateway, "SEARCH_ERROR", "Title search failed", err)
		return
	}

	if items == nil {
		items = []models.Candidate{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"items": items,
			"count": len(items),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":         "healthy",
			"version":        h.version,
			"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
