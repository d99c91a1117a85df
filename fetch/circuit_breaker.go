package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrCircuitOpen is returned without contacting a host whose breaker is
// open. It wraps ErrUpstreamDown.
var ErrCircuitOpen = fmt.Errorf("circuit open: %w", ErrUpstreamDown)

// BreakerState is the state of one host's circuit breaker.
type BreakerState string

const (
	BreakerClosed BreakerState = "closed"
	BreakerOpen   BreakerState = "open"
)

// CircuitBreakerFetcher wraps a fetcher with one circuit breaker per host,
// so a crates.io outage does not also stall the GitHub tab.
type CircuitBreakerFetcher struct {
	fetcher   FetcherInterface
	threshold int64
	logger    *slog.Logger

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

// BreakerOption configures a CircuitBreakerFetcher.
type BreakerOption func(*CircuitBreakerFetcher)

// WithThreshold sets how many failures trip a breaker.
func WithThreshold(n int64) BreakerOption {
	return func(cbf *CircuitBreakerFetcher) {
		cbf.threshold = n
	}
}

// WithBreakerLogger sets the logger that records trips.
func WithBreakerLogger(l *slog.Logger) BreakerOption {
	return func(cbf *CircuitBreakerFetcher) {
		if l != nil {
			cbf.logger = l
		}
	}
}

// NewCircuitBreakerFetcher wraps f. Breakers trip after five failures by
// default.
func NewCircuitBreakerFetcher(f FetcherInterface, opts ...BreakerOption) *CircuitBreakerFetcher {
	cbf := &CircuitBreakerFetcher{
		fetcher:   f,
		threshold: 5,
		logger:    slog.New(slog.DiscardHandler),
		breakers:  make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(cbf)
	}
	return cbf
}

func (cbf *CircuitBreakerFetcher) breakerFor(host string) *circuit.Breaker {
	cbf.mu.Lock()
	defer cbf.mu.Unlock()

	if b, ok := cbf.breakers[host]; ok {
		return b
	}

	// An open breaker lets a probe through after 30s, doubling up to 5m.
	probe := backoff.NewExponentialBackOff()
	probe.InitialInterval = 30 * time.Second
	probe.MaxInterval = 5 * time.Minute
	probe.Multiplier = 2
	probe.Reset()

	b := circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    probe,
		ShouldTrip: circuit.ThresholdTripFunc(cbf.threshold),
	})
	cbf.breakers[host] = b
	return b
}

// Fetch passes the request through the breaker for its host. Not found
// and other client errors reach the caller without counting as failures.
func (cbf *CircuitBreakerFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	host := hostOf(rawURL)
	b := cbf.breakerFor(host)

	if !b.Ready() {
		return nil, fmt.Errorf("%s: %w", host, ErrCircuitOpen)
	}

	wasTripped := b.Tripped()
	var resp *Response
	var fetchErr error
	err := b.Call(func() error {
		resp, fetchErr = cbf.fetcher.Fetch(ctx, rawURL)
		if fetchErr != nil && !countsAsFailure(fetchErr) {
			return nil
		}
		return fetchErr
	}, 0)

	switch tripped := b.Tripped(); {
	case tripped && !wasTripped:
		cbf.logger.Warn("circuit breaker opened", "host", host, "error", err)
	case !tripped && wasTripped:
		cbf.logger.Info("circuit breaker closed", "host", host)
	}

	if err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return resp, nil
}

func countsAsFailure(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return errors.Is(statusErr, ErrUpstreamDown) || errors.Is(statusErr, ErrRateLimited)
	}
	return !errors.Is(err, context.Canceled)
}

// hostOf returns the host:port of rawURL, or rawURL itself when it does
// not parse as an absolute URL.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

// States returns the breaker state of every host contacted so far.
func (cbf *CircuitBreakerFetcher) States() map[string]BreakerState {
	cbf.mu.Lock()
	defer cbf.mu.Unlock()

	states := make(map[string]BreakerState, len(cbf.breakers))
	for host, b := range cbf.breakers {
		if b.Tripped() {
			states[host] = BreakerOpen
		} else {
			states[host] = BreakerClosed
		}
	}
	return states
}
