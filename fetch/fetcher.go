// Package fetch provides the HTTP transport used by the API clients:
// DNS-cached connections, retries with exponential backoff that respect
// upstream rate limit hints, and per-host circuit breaking.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenk/backoff"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrRateLimited  = errors.New("rate limited by upstream")
	ErrUpstreamDown = errors.New("upstream unavailable")
)

// StatusError is returned for any non-200 response. Err holds the
// matching sentinel (ErrNotFound, ErrRateLimited, ErrUpstreamDown) or
// nil for other client errors. RetryAfter is the wait the upstream asked
// for, zero when it gave none.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
	RetryAfter time.Duration
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d from %s: %v", e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// RateLimit is the quota reported in X-RateLimit-* headers. GitHub sends
// these on every response; a zero Limit means the upstream sent none.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Response contains a successful upstream response.
type Response struct {
	Body        io.ReadCloser
	ContentType string
	RateLimit   RateLimit
}

// FetcherInterface defines the interface for fetchers.
type FetcherInterface interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Fetcher performs GET requests against upstream APIs.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	accept     string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	maxWait    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithAccept sets the Accept header.
func WithAccept(accept string) Option {
	return func(f *Fetcher) {
		f.accept = accept
	}
}

// WithMaxRetries sets the maximum retry attempts.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithMaxWait sets the longest upstream requested wait that is honored.
// A rate limited response asking for more fails immediately.
func WithMaxWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.maxWait = d
	}
}

// WithTimeout sets the overall timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a new Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newTransport(sharedResolver()),
		},
		userAgent:  "cratescope",
		accept:     "application/json",
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   10 * time.Second,
		maxWait:    30 * time.Second,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// schedule returns the retry delays for one Fetch call, stopping after
// maxRetries. backoff.WithMaxRetries treats 0 as unlimited, so no retries
// is a StopBackOff.
func (f *Fetcher) schedule() backoff.BackOff {
	if f.maxRetries <= 0 {
		return &backoff.StopBackOff{}
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = f.baseDelay
	exp.RandomizationFactor = 0.1
	exp.Multiplier = 2
	exp.MaxInterval = f.maxDelay
	exp.MaxElapsedTime = 0

	b := backoff.WithMaxRetries(exp, uint64(f.maxRetries))
	b.Reset()
	return b
}

// Fetch performs a GET request against url, retrying rate limited and
// server errors. The caller must close the returned Response.Body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	schedule := f.schedule()

	for attempt := 1; ; attempt++ {
		resp, err := f.doFetch(ctx, url)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrUpstreamDown) {
			return nil, err
		}

		delay := schedule.NextBackOff()
		if delay == backoff.Stop {
			return nil, err
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.RetryAfter > delay {
			if statusErr.RetryAfter > f.maxWait {
				f.logger.Warn("upstream asked for a long wait, giving up", "url", url, "retry_after", statusErr.RetryAfter)
				return nil, err
			}
			delay = statusErr.RetryAfter
		}

		f.logger.Debug("retrying request", "url", url, "attempt", attempt, "delay", delay, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (f *Fetcher) doFetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", f.accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	limit := parseRateLimit(resp.Header)
	if resp.StatusCode == http.StatusOK {
		return &Response{
			Body:        resp.Body,
			ContentType: resp.Header.Get("Content-Type"),
			RateLimit:   limit,
		}, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	_ = resp.Body.Close()
	statusErr := &StatusError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		statusErr.Err = ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && limit.Limit > 0 && limit.Remaining == 0:
		// GitHub reports an exhausted quota as 403 with zero remaining.
		statusErr.Err = ErrRateLimited
		statusErr.RetryAfter = f.retryAfter(resp.Header, limit)
	case resp.StatusCode >= 500:
		statusErr.Err = ErrUpstreamDown
		statusErr.RetryAfter = f.retryAfter(resp.Header, RateLimit{})
	}
	return nil, statusErr
}

// retryAfter reads the wait from Retry-After (seconds) or, failing that,
// the rate limit reset time.
func (f *Fetcher) retryAfter(h http.Header, limit RateLimit) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil {
			if d := at.Sub(f.now()); d > 0 {
				return d
			}
		}
	}
	if !limit.Reset.IsZero() {
		if d := limit.Reset.Sub(f.now()); d > 0 {
			return d
		}
	}
	return 0
}

func parseRateLimit(h http.Header) RateLimit {
	var rl RateLimit
	rl.Limit, _ = strconv.Atoi(h.Get("X-RateLimit-Limit"))
	rl.Remaining, _ = strconv.Atoi(h.Get("X-RateLimit-Remaining"))
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil && reset > 0 {
		rl.Reset = time.Unix(reset, 0)
	}
	return rl
}
