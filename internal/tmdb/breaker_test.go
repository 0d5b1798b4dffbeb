// Reelscope - Personal Media Tracking and Recommendations
// Copyright 2026 Reelscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelscope/reelscope

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestBreakerPassesThroughSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":42,"title":"Fine"}]}`))
	})
	breaker := NewBreakerClient(client)

	got, err := breaker.Popular(context.Background())
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if len(got) != 1 || got[0].TMDBID != 42 {
		t.Errorf("got = %+v", got)
	}
	if breaker.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", breaker.State())
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	breaker := NewBreakerClient(client)

	for i := 0; i < 12; i++ {
		_, _ = breaker.Popular(context.Background())
		if breaker.State() == gobreaker.StateOpen {
			break
		}
	}

	if breaker.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open after sustained failures", breaker.State())
	}

	_, err := breaker.Popular(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
}
