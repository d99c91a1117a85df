package core

import (
	"context"
	"sync"
)

const defaultConcurrency = 8

// BulkFetchPackages fetches package metadata for multiple names in parallel.
// Individual fetch errors are silently ignored - those names are omitted from results.
// Returns a map of name to Package.
func BulkFetchPackages(ctx context.Context, reg Registry, names []string) map[string]*Package {
	return BulkFetchPackagesWithConcurrency(ctx, reg, names, defaultConcurrency)
}

// BulkFetchPackagesWithConcurrency fetches packages with a custom concurrency limit.
func BulkFetchPackagesWithConcurrency(ctx context.Context, reg Registry, names []string, concurrency int) map[string]*Package {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make(map[string]*Package)
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			pkg, err := reg.FetchPackage(ctx, n)
			if err == nil && pkg != nil {
				mu.Lock()
				results[n] = pkg
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()
	return results
}
