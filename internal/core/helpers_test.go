package core

import (
	"context"
	"sync/atomic"
	"testing"
)

type stubRegistry struct {
	packages map[string]Package
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *stubRegistry) Ecosystem() string { return "cargo" }

func (s *stubRegistry) Search(ctx context.Context, query string, limit int) ([]Package, error) {
	return nil, nil
}

func (s *stubRegistry) Recent(ctx context.Context, limit int) ([]Package, error) {
	return nil, nil
}

func (s *stubRegistry) FetchPackage(ctx context.Context, name string) (*Package, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	pkg, ok := s.packages[name]
	if !ok {
		return nil, &NotFoundError{Ecosystem: "cargo", Name: name}
	}
	return &pkg, nil
}

func (s *stubRegistry) URLs() URLBuilder { return nil }

func TestBulkFetchPackages(t *testing.T) {
	reg := &stubRegistry{packages: map[string]Package{
		"serde": {Name: "serde", Downloads: 100},
		"tokio": {Name: "tokio", Downloads: 50},
	}}

	got := BulkFetchPackages(context.Background(), reg, []string{"serde", "tokio", "missing"})

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(got), got)
	}
	if got["serde"].Downloads != 100 {
		t.Errorf("serde downloads = %d, want 100", got["serde"].Downloads)
	}
	if _, ok := got["missing"]; ok {
		t.Error("missing package should be omitted")
	}
}

func TestBulkFetchPackagesWithConcurrency(t *testing.T) {
	reg := &stubRegistry{packages: map[string]Package{}}
	names := []string{"a", "b", "c", "d", "e", "f"}
	for _, n := range names {
		reg.packages[n] = Package{Name: n}
	}

	got := BulkFetchPackagesWithConcurrency(context.Background(), reg, names, 2)

	if len(got) != len(names) {
		t.Errorf("got %d results, want %d", len(got), len(names))
	}
	if peak := reg.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestBulkFetchPackages_Cancelled(t *testing.T) {
	reg := &stubRegistry{packages: map[string]Package{"serde": {Name: "serde"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := BulkFetchPackagesWithConcurrency(ctx, reg, []string{"serde"}, 1)
	if len(got) > 1 {
		t.Errorf("unexpected results %v", got)
	}
}
