// Package cratescope provides the data source behind the cratescope crate
// browser: crates.io search, recent updates and crate details, plus
// trending repositories from GitHub.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/cratescope"
//		_ "github.com/git-pkgs/cratescope/all"
//	)
//
//	client := cratescope.DefaultClient()
//	reg, err := cratescope.New("cargo", "", client)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	src := cratescope.NewSource(reg, nil)
//	pkg, err := src.Details(context.Background(), "serde")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(pkg.Name, pkg.License)
package cratescope

import (
	"context"
	"errors"

	"github.com/git-pkgs/cratescope/client"
	"github.com/git-pkgs/cratescope/internal/core"
)

// Re-export types from internal/core
type (
	// Registry is the interface implemented by registry clients.
	Registry = core.Registry

	// Trending is implemented by sources of trending repositories.
	Trending = core.Trending

	// Package represents metadata about a package from a registry.
	Package = core.Package

	// Repository represents a source repository.
	Repository = core.Repository

	// Period selects the window for trending repositories.
	Period = core.Period
)

// Re-export types from client
type (
	// Client is an HTTP client with retry logic for registry APIs.
	Client = client.Client

	// URLBuilder constructs URLs for a registry.
	URLBuilder = client.URLBuilder

	// Option configures a Client.
	Option = client.Option
)

// Re-export constants
const (
	PeriodDaily   = core.PeriodDaily
	PeriodWeekly  = core.PeriodWeekly
	PeriodMonthly = core.PeriodMonthly
)

// Re-export errors
var (
	ErrNotFound = client.ErrNotFound

	// ErrNoTrending is returned by Source.Trending when no trending
	// client was configured.
	ErrNoTrending = errors.New("trending repositories not configured")
)

// Error types
type (
	HTTPError     = client.HTTPError
	NotFoundError = client.NotFoundError
	ParseError    = client.ParseError
)

// New creates a new registry for the given ecosystem.
// If baseURL is empty, the default registry URL is used.
// If client is nil, DefaultClient() is used.
func New(ecosystem string, baseURL string, c *Client) (Registry, error) {
	return core.New(ecosystem, baseURL, c)
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 3 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// Client options.
var (
	WithTimeout    = client.WithTimeout
	WithMaxRetries = client.WithMaxRetries
	WithLogger     = client.WithLogger
	WithUserAgent  = client.WithUserAgent
)

// SupportedEcosystems returns all registered ecosystem types.
// Note: ecosystems must be imported to be registered.
func SupportedEcosystems() []string {
	return core.SupportedEcosystems()
}

// IsNotFound reports whether err represents a missing package.
func IsNotFound(err error) bool {
	return client.IsNotFound(err)
}

// Source combines a package registry with an optional trending
// repository client. It is safe for concurrent use.
type Source struct {
	registry    Registry
	trending    Trending
	concurrency int
}

// NewSource returns a Source. trending may be nil, in which case Trending
// returns ErrNoTrending.
func NewSource(reg Registry, trending Trending) *Source {
	return &Source{registry: reg, trending: trending, concurrency: 8}
}

// Search returns packages matching query, most downloaded first.
func (s *Source) Search(ctx context.Context, query string, limit int) ([]Package, error) {
	return s.registry.Search(ctx, query, limit)
}

// Recent returns recently updated packages.
func (s *Source) Recent(ctx context.Context, limit int) ([]Package, error) {
	return s.registry.Recent(ctx, limit)
}

// Trending returns popular repositories created within period.
func (s *Source) Trending(ctx context.Context, period Period, limit int) ([]Repository, error) {
	if s.trending == nil {
		return nil, ErrNoTrending
	}
	return s.trending.Trending(ctx, period, limit)
}

// Details fetches the full record for one package.
func (s *Source) Details(ctx context.Context, name string) (*Package, error) {
	return s.registry.FetchPackage(ctx, name)
}

// DetailsMany fetches several packages in parallel. Packages that fail to
// load are omitted from the result.
func (s *Source) DetailsMany(ctx context.Context, names []string) map[string]*Package {
	return core.BulkFetchPackagesWithConcurrency(ctx, s.registry, names, s.concurrency)
}

// Ecosystem returns the PURL type of the underlying registry.
func (s *Source) Ecosystem() string {
	return s.registry.Ecosystem()
}

// URLs returns the URL builder of the underlying registry.
func (s *Source) URLs() URLBuilder {
	return s.registry.URLs()
}
