package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenk/backoff"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "30")
		w.Header().Set("X-RateLimit-Remaining", "29")
		w.Header().Set("X-RateLimit-Reset", "1767225600")
		_, _ = w.Write([]byte(`{"crates":[]}`))
	}))
	defer server.Close()

	resp, err := NewFetcher().Fetch(context.Background(), server.URL+"/api/v1/crates")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.ContentType != "application/json" {
		t.Errorf("ContentType = %q", resp.ContentType)
	}
	want := RateLimit{Limit: 30, Remaining: 29, Reset: time.Unix(1767225600, 0)}
	if resp.RateLimit != want {
		t.Errorf("RateLimit = %+v, want %+v", resp.RateLimit, want)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"crates":[]}` {
		t.Errorf("body = %q", body)
	}
}

func TestFetch_Headers(t *testing.T) {
	var ua, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := NewFetcher(WithUserAgent("cratescope-test/1.0"), WithAccept("application/vnd.github+json"))
	resp, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	if ua != "cratescope-test/1.0" {
		t.Errorf("User-Agent = %q", ua)
	}
	if accept != "application/vnd.github+json" {
		t.Errorf("Accept = %q", accept)
	}
}

func TestFetch_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		headers  map[string]string
		want     error
		attempts int32
	}{
		{"not found", http.StatusNotFound, nil, ErrNotFound, 1},
		{"too many requests", http.StatusTooManyRequests, nil, ErrRateLimited, 3},
		{"github quota exhausted", http.StatusForbidden, map[string]string{"X-RateLimit-Limit": "10", "X-RateLimit-Remaining": "0"}, ErrRateLimited, 3},
		{"plain forbidden", http.StatusForbidden, map[string]string{"X-RateLimit-Limit": "10", "X-RateLimit-Remaining": "3"}, nil, 1},
		{"bad gateway", http.StatusBadGateway, nil, ErrUpstreamDown, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer server.Close()

			f := NewFetcher(WithMaxRetries(2), WithBaseDelay(time.Millisecond))
			_, err := f.Fetch(context.Background(), server.URL)

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *StatusError, got %T (%v)", err, err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}
			if statusErr.Err != tt.want {
				t.Errorf("Err = %v, want %v", statusErr.Err, tt.want)
			}
			if statusErr.Body != "nope" {
				t.Errorf("Body = %q", statusErr.Body)
			}
			if got := attempts.Load(); got != tt.attempts {
				t.Errorf("attempts = %d, want %d", got, tt.attempts)
			}
		})
	}
}

func TestFetch_RetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := NewFetcher(WithBaseDelay(time.Millisecond))
	resp, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	_ = resp.Body.Close()

	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}

func TestFetch_NoRetries(t *testing.T) {
	tests := []struct {
		name    string
		retries int
		status  int
		want    error
	}{
		{"server error", 0, http.StatusServiceUnavailable, ErrUpstreamDown},
		{"rate limited", 0, http.StatusTooManyRequests, ErrRateLimited},
		{"negative retries", -1, http.StatusBadGateway, ErrUpstreamDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			f := NewFetcher(WithMaxRetries(tt.retries), WithBaseDelay(time.Millisecond))
			_, err := f.Fetch(ctx, server.URL)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if attempts.Load() != 1 {
				t.Errorf("attempts = %d, want 1", attempts.Load())
			}
		})
	}
}

func TestSchedule_StopsAfterMaxRetries(t *testing.T) {
	for _, retries := range []int{0, 1, 3} {
		b := NewFetcher(WithMaxRetries(retries), WithBaseDelay(time.Millisecond)).schedule()
		delays := 0
		for b.NextBackOff() != backoff.Stop {
			delays++
			if delays > 10 {
				break
			}
		}
		if delays != retries {
			t.Errorf("WithMaxRetries(%d): schedule gave %d delays", retries, delays)
		}
	}
}

func TestFetch_HonorsRetryAfter(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := NewFetcher(WithBaseDelay(time.Millisecond))
	start := time.Now()
	resp, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	_ = resp.Body.Close()

	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Errorf("succeeded after %s, want at least the 1s Retry-After", elapsed)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestFetch_RetryAfterBeyondMaxWait(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Retry-After", strconv.Itoa(3600))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewFetcher(WithBaseDelay(time.Millisecond), WithMaxWait(time.Second))
	start := time.Now()
	_, err := f.Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.RetryAfter != time.Hour {
		t.Fatalf("err = %v, want rate limit error with 1h RetryAfter", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1", attempts.Load())
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Fetch should give up without waiting")
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFetcher()
	f.now = func() time.Time { return now }

	tests := []struct {
		name   string
		header http.Header
		limit  RateLimit
		want   time.Duration
	}{
		{"none", http.Header{}, RateLimit{}, 0},
		{"seconds", http.Header{"Retry-After": {"7"}}, RateLimit{}, 7 * time.Second},
		{"http date", http.Header{"Retry-After": {now.Add(time.Minute).Format(http.TimeFormat)}}, RateLimit{}, time.Minute},
		{"reset", http.Header{}, RateLimit{Limit: 10, Reset: now.Add(42 * time.Second)}, 42 * time.Second},
		{"reset in the past", http.Header{}, RateLimit{Limit: 10, Reset: now.Add(-time.Second)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.retryAfter(tt.header, tt.limit); got != tt.want {
				t.Errorf("retryAfter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := NewFetcher(WithMaxRetries(10), WithBaseDelay(time.Second))
	_, err := f.Fetch(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
