// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

// Package api provides HTTP routing and handlers for the recommendation
// service using the Chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// requestID ensures every request carries an X-Request-ID, generating one
// when the client did not send it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// RouterConfig contains routing and middleware settings.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimit      int
	RatePeriod     time.Duration
}

// NewRouter builds the full route tree.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 120
	}
	if cfg.RatePeriod <= 0 {
		cfg.RatePeriod = time.Minute
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RatePeriod))

		r.Get("/health", handler.Health)
		r.Get("/search", handler.Search)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/user/{userID}", handler.GetRecommendations)
			r.Get("/because/{tmdbID}", handler.GetBecauseYouWatched)
			r.Get("/stats", handler.GetEngineStats)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
