package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry is the interface implemented by package registry clients.
type Registry interface {
	// Ecosystem returns the PURL type for this registry (e.g., "cargo").
	Ecosystem() string

	// Search returns packages matching query, most downloaded first.
	Search(ctx context.Context, query string, limit int) ([]Package, error)

	// Recent returns recently updated packages.
	Recent(ctx context.Context, limit int) ([]Package, error)

	// FetchPackage retrieves full package metadata.
	FetchPackage(ctx context.Context, name string) (*Package, error)

	// URLs returns the URL builder for this registry.
	URLs() URLBuilder
}

// Trending is implemented by sources of trending repositories.
type Trending interface {
	Trending(ctx context.Context, period Period, limit int) ([]Repository, error)
}

// Factory creates a registry instance for a given base URL.
type Factory func(baseURL string, client *Client) Registry

var (
	factories = make(map[string]Factory)
	defaults  = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a registry factory to the global registry.
// ecosystem is the PURL type (e.g., "cargo").
// defaultURL is the default registry URL for the ecosystem.
func Register(ecosystem string, defaultURL string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[ecosystem] = factory
	defaults[ecosystem] = defaultURL
}

// New creates a new registry for the given ecosystem.
// If baseURL is empty, the default registry URL is used.
func New(ecosystem string, baseURL string, client *Client) (Registry, error) {
	mu.RLock()
	factory, ok := factories[ecosystem]
	defaultURL := defaults[ecosystem]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown ecosystem: %s", ecosystem)
	}

	if baseURL == "" {
		baseURL = defaultURL
	}

	if client == nil {
		client = DefaultClient()
	}

	return factory(baseURL, client), nil
}

// SupportedEcosystems returns all registered ecosystem types, sorted.
func SupportedEcosystems() []string {
	mu.RLock()
	defer mu.RUnlock()

	ecosystems := make([]string, 0, len(factories))
	for eco := range factories {
		ecosystems = append(ecosystems, eco)
	}
	sort.Strings(ecosystems)
	return ecosystems
}

// DefaultURL returns the default registry URL for an ecosystem.
func DefaultURL(ecosystem string) string {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[ecosystem]
}
