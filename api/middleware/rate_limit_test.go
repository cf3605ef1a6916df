package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grocemart/grocemart-backend/pkg/config"
	pkgerrors "github.com/grocemart/grocemart-backend/pkg/errors"
)

type fakeLimiter struct {
	counts map[string]int64
	limit  int64
}

func newFakeLimiter(limit int64) *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64), limit: limit}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, _ int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= f.limit, f.counts[scope], nil
}

func quoteRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shipping/quote", nil)
	if userID != "" {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	return req
}

func TestQuoteRateLimitRejectsOverLimit(t *testing.T) {
	limiter := newFakeLimiter(2)
	cfg := config.RateLimitConfig{QuoteWindow: time.Minute, QuoteLimit: 2}
	var calls int
	handler := QuoteRateLimit(cfg, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, quoteRequest("user-a"))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, quoteRequest("user-a"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, expected 2", calls)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeRateLimit, payload.Error.Code)
	}
}

func TestQuoteRateLimitScopesPerUser(t *testing.T) {
	limiter := newFakeLimiter(1)
	cfg := config.RateLimitConfig{QuoteWindow: time.Minute, QuoteLimit: 1}
	handler := QuoteRateLimit(cfg, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, quoteRequest("user-a"))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", first.Code)
	}

	// Another user's window is independent.
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, quoteRequest("user-b"))
	if other.Code != http.StatusOK {
		t.Fatalf("expected 200 for second user, got %d", other.Code)
	}

	blocked := httptest.NewRecorder()
	handler.ServeHTTP(blocked, quoteRequest("user-a"))
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", blocked.Code)
	}
}

func TestQuoteRateLimitDisabledWithoutStore(t *testing.T) {
	cfg := config.RateLimitConfig{QuoteWindow: time.Minute, QuoteLimit: 1}
	var calls int
	handler := QuoteRateLimit(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, quoteRequest("user-a"))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected passthrough, got %d", resp.Code)
		}
	}
	if calls != 3 {
		t.Fatalf("handler ran %d times, expected 3", calls)
	}
}
