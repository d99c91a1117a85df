// Package client provides the JSON API client shared by the registry
// clients, its error types, and registry URL builders.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/git-pkgs/cratescope/fetch"
)

const defaultUserAgent = "cratescope"

// Client performs GET requests against registry APIs and decodes JSON
// responses. It retries rate limited and server errors with exponential
// backoff and trips a per-host circuit breaker when an upstream keeps
// failing.
type Client struct {
	fetcher    fetch.FetcherInterface
	userAgent  string
	accept     string
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the first retry delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = d
	}
}

// WithUserAgent sets the User-Agent sent with every request. crates.io
// rejects requests without one.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithAccept sets the Accept header sent with every request.
func WithAccept(accept string) Option {
	return func(c *Client) {
		c.accept = accept
	}
}

// WithLogger sets the logger passed down to the transport.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithFetcher replaces the transport. Mostly useful in tests.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 3 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return NewClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		userAgent:  defaultUserAgent,
		accept:     "application/json",
		timeout:    30 * time.Second,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = c.newFetcher()
	}
	return c
}

func (c *Client) newFetcher() fetch.FetcherInterface {
	f := fetch.NewFetcher(
		fetch.WithUserAgent(c.userAgent),
		fetch.WithAccept(c.accept),
		fetch.WithTimeout(c.timeout),
		fetch.WithMaxRetries(c.maxRetries),
		fetch.WithBaseDelay(c.baseDelay),
		fetch.WithLogger(c.logger),
	)
	return fetch.NewCircuitBreakerFetcher(f, fetch.WithBreakerLogger(c.logger))
}

// WithUserAgent returns a copy of the client that sends ua as its
// User-Agent. The copy gets its own transport; prefer the WithUserAgent
// option when building a new client.
func (c *Client) WithUserAgent(ua string) *Client {
	clone := *c
	clone.userAgent = ua
	clone.fetcher = clone.newFetcher()
	return &clone
}

// UserAgent returns the User-Agent sent with requests.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// GetBody fetches url and returns the raw response body.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, classify(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.GetBody(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{URL: url, Err: err}
	}
	return nil
}

func classify(url string, err error) error {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return &HTTPError{
			StatusCode: statusErr.StatusCode,
			URL:        url,
			Body:       statusErr.Body,
			Err:        err,
		}
	}
	return err
}
