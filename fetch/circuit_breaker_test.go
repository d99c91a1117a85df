package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHostOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://crates.io/api/v1/crates?q=serde", "crates.io"},
		{"https://api.github.com/search/repositories?q=language:rust", "api.github.com"},
		{"http://127.0.0.1:8080/api", "127.0.0.1:8080"},
		{"not-a-url", "not-a-url"},
	}
	for _, tt := range tests {
		if got := hostOf(tt.url); got != tt.want {
			t.Errorf("hostOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCircuitBreaker_PassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(NewFetcher())
	if len(cbf.States()) != 0 {
		t.Fatal("expected no breakers before the first request")
	}

	resp, err := cbf.Fetch(context.Background(), server.URL+"/api/v1/crates")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	_ = resp.Body.Close()

	states := cbf.States()
	if len(states) != 1 || states[hostOf(server.URL)] != BreakerClosed {
		t.Errorf("States() = %v", states)
	}
}

func TestCircuitBreaker_Trips(t *testing.T) {
	var requests atomic.Int32
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer up.Close()

	cbf := NewCircuitBreakerFetcher(NewFetcher(WithMaxRetries(0)), WithThreshold(3))
	ctx := context.Background()

	for range 10 {
		_, _ = cbf.Fetch(ctx, down.URL)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("requests = %d, want 3 before the breaker opened", got)
	}

	_, err := cbf.Fetch(ctx, down.URL)
	if !errors.Is(err, ErrCircuitOpen) || !errors.Is(err, ErrUpstreamDown) {
		t.Errorf("err = %v, want ErrCircuitOpen wrapping ErrUpstreamDown", err)
	}

	resp, err := cbf.Fetch(ctx, up.URL)
	if err != nil {
		t.Fatalf("healthy host affected by open breaker: %v", err)
	}
	_ = resp.Body.Close()

	states := cbf.States()
	if states[hostOf(down.URL)] != BreakerOpen || states[hostOf(up.URL)] != BreakerClosed {
		t.Errorf("States() = %v", states)
	}
}

func TestCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(NewFetcher(WithMaxRetries(0)), WithThreshold(2))
	for range 5 {
		_, err := cbf.Fetch(context.Background(), server.URL+"/api/v1/crates/nope")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if state := cbf.States()[hostOf(server.URL)]; state != BreakerClosed {
		t.Errorf("state = %s, want closed after 404s", state)
	}
}
