// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package tmdb

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/metrics"
	"github.com/reelscope/reelscope/internal/models"
)

// BreakerClient wraps Client with a circuit breaker. Prevents cascading
// failures when the TMDB API is unavailable or slow.
//
// The breaker uses real time for its interval and timeout calculations;
// this is intentional for production resilience.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[[]models.Candidate]
	name   string
}

// NewBreakerClient wraps the given client.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 1 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewBreakerClient(client *Client) *BreakerClient {
	cbName := "tmdb-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.Candidate](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening tmdb circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("tmdb circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a TMDB call with circuit breaker protection.
func (b *BreakerClient) execute(fn func() ([]models.Candidate, error)) ([]models.Candidate, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	return result, nil
}

// Discover returns titles matching the filter with breaker protection.
func (b *BreakerClient) Discover(ctx context.Context, filter models.DiscoverFilter) ([]models.Candidate, error) {
	return b.execute(func() ([]models.Candidate, error) {
		return b.client.Discover(ctx, filter)
	})
}

// Similar returns similar titles with breaker protection.
func (b *BreakerClient) Similar(ctx context.Context, tmdbID int) ([]models.Candidate, error) {
	return b.execute(func() ([]models.Candidate, error) {
		return b.client.Similar(ctx, tmdbID)
	})
}

// Recommended returns provider recommendations with breaker protection.
func (b *BreakerClient) Recommended(ctx context.Context, tmdbID int) ([]models.Candidate, error) {
	return b.execute(func() ([]models.Candidate, error) {
		return b.client.Recommended(ctx, tmdbID)
	})
}

// Trending returns trending titles with breaker protection.
func (b *BreakerClient) Trending(ctx context.Context, window string) ([]models.Candidate, error) {
	return b.execute(func() ([]models.Candidate, error) {
		return b.client.Trending(ctx, window)
	})
}

// Popular returns the popular listing with breaker protection.
func (b *BreakerClient) Popular(ctx context.Context) ([]models.Candidate, error) {
	return b.execute(func() ([]models.Candidate, error) {
		return b.client.Popular(ctx)
	})
}

// SearchMovies searches titles with breaker protection.
func (b *BreakerClient) SearchMovies(ctx context.Context, query string) ([]models.Candidate, error) {
	return b.execute(func() ([]models.Candidate, error) {
		return b.client.SearchMovies(ctx, query)
	})
}

// State returns the current circuit breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// Counts returns the current circuit breaker counts.
func (b *BreakerClient) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

// Name returns the circuit breaker name.
func (b *BreakerClient) Name() string {
	return b.name
}

// stateToString converts a gobreaker state to its metric label.
func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state to its gauge value.
func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
