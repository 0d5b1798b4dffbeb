// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/reelscope/reelscope/internal/history"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/metrics"
	"github.com/reelscope/reelscope/internal/models"
)

// ErrInvalidUserID is returned for an empty or blank user id. It is the
// only error the engine surfaces to callers; every downstream failure
// degrades the response instead.
var ErrInvalidUserID = errors.New("invalid user id")

// summaryTop bounds the genres and directors included in the trimmed
// profile summary attached to responses.
const summaryTop = 3

// Engine computes ranked, explained recommendations for a user. Stateless
// per request apart from the response cache and diagnostic counters; safe
// for concurrent use.
type Engine struct {
	config  *Config
	store   history.Store
	gateway Gateway
	blender *Blender

	// Seeded generator for the mood collector's substitution branch.
	rng   *rand.Rand
	rngMu sync.Mutex

	cacheMu sync.RWMutex
	cache   map[string]*cacheEntry

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// cacheEntry is a cached per-user response with its expiry.
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// NewEngine constructs an Engine. The config is cloned so later mutation
// by the caller cannot affect a running engine.
func NewEngine(cfg *Config, store history.Store, gateway Gateway) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if store == nil {
		return nil, errors.New("history store is required")
	}
	if gateway == nil {
		return nil, errors.New("metadata gateway is required")
	}

	cfg = cfg.Clone()

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:  cfg,
		store:   store,
		gateway: gateway,
		blender: NewBlender(cfg.Weights, cfg.Thresholds),
		rng:     rand.New(rand.NewSource(seed)),
		cache:   make(map[string]*cacheEntry),
	}, nil
}

// Recommend builds the full ranked recommendation list for a user.
//
// Every provider and store failure degrades the result rather than
// failing the call; the only returned error is ErrInvalidUserID.
func (e *Engine) Recommend(ctx context.Context, userID string) (*Response, error) {
	if strings.TrimSpace(userID) == "" {
		e.errorCount.Add(1)
		metrics.RecommendationRequestsTotal.WithLabelValues("invalid_user").Inc()
		return nil, ErrInvalidUserID
	}

	e.requestCount.Add(1)
	start := time.Now()
	requestID := uuid.NewString()

	if cached := e.checkCache(userID); cached != nil {
		e.cacheHits.Add(1)
		metrics.CacheHits.Inc()
		metrics.RecommendationRequestsTotal.WithLabelValues("cache_hit").Inc()

		out := *cached
		out.Metadata.RequestID = requestID
		out.Metadata.LatencyMS = time.Since(start).Milliseconds()
		out.Metadata.CacheHit = true
		return &out, nil
	}
	e.cacheMisses.Add(1)
	metrics.CacheMisses.Inc()

	in := e.loadHistory(ctx, userID)
	in.profile = BuildTasteProfile(in.rated, e.config.Thresholds.ProfileMinRating)

	results := e.collectAll(ctx, in)

	var counts SourceCounts
	for _, r := range results {
		counts.set(r.source, len(r.candidates))
	}

	scored := e.blender.Blend(results)
	ranked := Assemble(scored, e.config.Limits.MaxRecommendations)

	response := &Response{
		Recommendations: ranked,
		Profile:         summarizeProfile(in.profile),
		Stats:           counts,
		Metadata: ResponseMetadata{
			RequestID: requestID,
			UserID:    userID,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
		},
	}

	e.storeCache(userID, response)

	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	metrics.RecommendationRequestsTotal.WithLabelValues("success").Inc()

	logging.Info().
		Str("request_id", requestID).
		Str("user_id", userID).
		Int("recommendations", len(ranked)).
		Bool("cold_start", in.profile == nil).
		Int64("latency_ms", response.Metadata.LatencyMS).
		Msg("recommendations computed")

	return response, nil
}

// BecauseYouWatched combines the provider's similar and recommended
// listings for one title. Single-source passthrough, no scoring.
func (e *Engine) BecauseYouWatched(ctx context.Context, tmdbID int, userID string) ([]models.Candidate, error) {
	if strings.TrimSpace(userID) == "" {
		e.errorCount.Add(1)
		return nil, ErrInvalidUserID
	}

	watched, err := e.store.GetWatchedTMDBIDs(ctx, userID)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("watched-id lookup failed, skipping exclusion")
		watched = map[int]struct{}{}
	}

	var (
		wg                   sync.WaitGroup
		similar, recommended []models.Candidate
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var simErr error
		similar, simErr = e.gateway.Similar(ctx, tmdbID)
		if simErr != nil {
			logging.Debug().Err(simErr).Int("tmdb_id", tmdbID).Msg("similar lookup failed")
		}
	}()
	go func() {
		defer wg.Done()
		var recErr error
		recommended, recErr = e.gateway.Recommended(ctx, tmdbID)
		if recErr != nil {
			logging.Debug().Err(recErr).Int("tmdb_id", tmdbID).Msg("recommended lookup failed")
		}
	}()
	wg.Wait()

	merged := make([]models.Candidate, 0, len(similar)+len(recommended))
	merged = append(merged, similar...)
	merged = append(merged, recommended...)

	// The seed title itself sometimes appears in its own listings.
	watched[tmdbID] = struct{}{}

	return filterWatched(merged, watched, e.config.Limits.BecauseYouWatchedCap), nil
}

// Stats returns the engine's diagnostic counters.
func (e *Engine) Stats() Stats {
	return Stats{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
}

// loadHistory fetches the user's rated items, watched-id set, and recent
// window. Each lookup degrades independently to empty on failure.
func (e *Engine) loadHistory(ctx context.Context, userID string) *collectorInput {
	in := &collectorInput{watched: map[int]struct{}{}}

	rated, err := e.store.GetRatedItems(ctx, userID, e.config.Thresholds.ProfileMinRating)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("rated-history lookup failed")
	} else {
		in.rated = rated
	}

	watched, err := e.store.GetWatchedTMDBIDs(ctx, userID)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("watched-id lookup failed")
	} else {
		in.watched = watched
	}

	recent, err := e.store.GetRecentItems(ctx, userID, e.config.Limits.RecentWindow)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("recent-history lookup failed")
	} else {
		in.recent = recent
	}

	return in
}

// summarizeProfile trims the profile for inclusion in responses. Nil in,
// nil out, so cold start serializes as null.
func summarizeProfile(profile *TasteProfile) *ProfileSummary {
	if profile == nil {
		return nil
	}

	genres := profile.TopGenres
	if len(genres) > summaryTop {
		genres = genres[:summaryTop]
	}
	directors := profile.FavoriteDirectors
	if len(directors) > summaryTop {
		directors = directors[:summaryTop]
	}

	return &ProfileSummary{
		TopGenres:         genres,
		FavoriteDirectors: directors,
		TotalRated:        profile.TotalRated,
	}
}

// checkCache returns the cached response for a user, or nil on miss or
// when caching is disabled.
func (e *Engine) checkCache(userID string) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	e.cacheMu.RLock()
	entry, ok := e.cache[userID]
	e.cacheMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.response
}

// storeCache caches a response for a user, evicting expired entries when
// the cache is full.
func (e *Engine) storeCache(userID string, response *Response) {
	if !e.config.Cache.Enabled {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictExpiredLocked()
	}
	if len(e.cache) >= e.config.Cache.MaxEntries {
		// Still full, drop an arbitrary entry rather than grow unbounded.
		for key := range e.cache {
			delete(e.cache, key)
			break
		}
	}

	e.cache[userID] = &cacheEntry{
		response:  response,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// evictExpiredLocked removes expired entries. Caller holds cacheMu.
func (e *Engine) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
		}
	}
}

// InvalidateUser drops a user's cached response, for callers that know
// the watch history just changed.
func (e *Engine) InvalidateUser(userID string) {
	e.cacheMu.Lock()
	delete(e.cache, userID)
	e.cacheMu.Unlock()
}
