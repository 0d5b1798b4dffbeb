// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

/*
client.go - TMDB REST API Client

Implements a client for The Movie Database API v3. Search, discover,
trending, similar and popular each return differently-shaped raw records;
all of them are normalized to models.Candidate here, at the gateway
boundary, and nowhere else.

API Reference: https://developer.themoviedb.org/reference
*/

package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/reelscope/reelscope/internal/metrics"
	"github.com/reelscope/reelscope/internal/models"
)

// DefaultBaseURL is the TMDB API v3 endpoint.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Trending windows accepted by the trending endpoint.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

// ClientConfig holds TMDB client settings.
type ClientConfig struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL when empty.
	BaseURL string

	// APIKey is the TMDB v3 API key, sent as a query parameter.
	APIKey string

	// Timeout bounds each request. Defaults to 8s when zero; a timed-out
	// call is indistinguishable from any other fetch failure to callers.
	Timeout time.Duration

	// RequestsPerSecond caps the outbound rate. Defaults to 4 when zero
	// (TMDB allows roughly 40 requests per 10 seconds).
	RequestsPerSecond float64
}

// Client provides access to the TMDB REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a TMDB API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 4
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// movieResult is the raw per-title record. Field presence varies by
// endpoint: search/discover return title/release_date, TV-flavored entries
// in trending return name/first_air_date.
type movieResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

// listResponse is the paged envelope common to all list endpoints.
type listResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// normalize converts a raw record to the canonical Candidate shape.
func normalize(r *movieResult) models.Candidate {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	year := 0
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			year = y
		}
	}

	return models.Candidate{
		TMDBID:       r.ID,
		Title:        title,
		Year:         year,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		Overview:     r.Overview,
		Rating:       r.VoteAverage,
		Popularity:   r.Popularity,
	}
}

// normalizeAll converts a list envelope, dropping records without an id.
func normalizeAll(results []movieResult) []models.Candidate {
	out := make([]models.Candidate, 0, len(results))
	for i := range results {
		if results[i].ID == 0 {
			continue
		}
		out = append(out, normalize(&results[i]))
	}
	return out
}

// Discover returns titles matching the filter.
func (c *Client) Discover(ctx context.Context, filter models.DiscoverFilter) ([]models.Candidate, error) {
	q := url.Values{}
	if len(filter.GenreIDs) > 0 {
		ids := make([]string, len(filter.GenreIDs))
		for i, id := range filter.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		q.Set("with_genres", strings.Join(ids, ","))
	}
	if filter.SortBy != "" {
		q.Set("sort_by", filter.SortBy)
	}
	if filter.MinRating > 0 {
		q.Set("vote_average.gte", strconv.FormatFloat(filter.MinRating, 'f', 1, 64))
	}
	if filter.MinVotes > 0 {
		q.Set("vote_count.gte", strconv.Itoa(filter.MinVotes))
	}

	return c.list(ctx, "discover", "/discover/movie", q)
}

// Similar returns titles similar to the given one.
func (c *Client) Similar(ctx context.Context, tmdbID int) ([]models.Candidate, error) {
	return c.list(ctx, "similar", fmt.Sprintf("/movie/%d/similar", tmdbID), nil)
}

// Recommended returns the provider's recommendations for the given title.
func (c *Client) Recommended(ctx context.Context, tmdbID int) ([]models.Candidate, error) {
	return c.list(ctx, "recommended", fmt.Sprintf("/movie/%d/recommendations", tmdbID), nil)
}

// Trending returns trending titles for the given window (WindowDay or
// WindowWeek).
func (c *Client) Trending(ctx context.Context, window string) ([]models.Candidate, error) {
	if window != WindowDay && window != WindowWeek {
		window = WindowWeek
	}
	return c.list(ctx, "trending", "/trending/movie/"+window, nil)
}

// Popular returns the current popular listing.
func (c *Client) Popular(ctx context.Context) ([]models.Candidate, error) {
	return c.list(ctx, "popular", "/movie/popular", nil)
}

// SearchMovies searches titles by name.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.Candidate, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.list(ctx, "search", "/search/movie", q)
}

// list performs a GET against a list endpoint and normalizes the envelope.
func (c *Client) list(ctx context.Context, endpoint, path string, q url.Values) ([]models.Candidate, error) {
	var envelope listResponse
	if err := c.get(ctx, endpoint, path, q, &envelope); err != nil {
		return nil, err
	}
	return normalizeAll(envelope.Results), nil
}

// get performs a rate-limited GET request and decodes the JSON body.
func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb rate limiter: %w", err)
	}

	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("tmdb %s request failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.ProviderRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("tmdb %s returned status %d (failed to read body)", endpoint, resp.StatusCode)
		}
		return fmt.Errorf("tmdb %s returned status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode tmdb %s response: %w", endpoint, err)
	}

	return nil
}
