package compare

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/git-pkgs/cratescope/internal/core"
	"github.com/git-pkgs/cratescope/internal/security"
)

type fakeFetcher struct {
	packages map[string]core.Package
	calls    []string
}

func (f *fakeFetcher) Details(ctx context.Context, name string) (*core.Package, error) {
	f.calls = append(f.calls, name)
	pkg, ok := f.packages[name]
	if !ok {
		return nil, &core.NotFoundError{Ecosystem: "cargo", Name: name}
	}
	return &pkg, nil
}

func newSet() *Set {
	a := security.Default()
	a.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return New(a, nil)
}

func TestAdd_Idempotent(t *testing.T) {
	s := newSet()

	if !s.Add(core.Package{Name: "serde", License: "MIT"}) {
		t.Fatal("first Add should append")
	}
	if s.Add(core.Package{Name: "serde", License: "Apache-2.0"}) {
		t.Error("second Add with the same name should be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if e, _ := s.At(0); e.Package.License != "MIT" {
		t.Errorf("original snapshot replaced: %+v", e.Package)
	}
}

func TestAdd_ComputesReport(t *testing.T) {
	s := newSet()
	s.Add(core.Package{Name: "mystery"})

	e, ok := s.At(0)
	if !ok {
		t.Fatal("At(0) missing")
	}
	if e.Report.Safe() {
		t.Error("package without license or links should not be safe")
	}
	if e.Report.Warnings[0] != security.WarnNoLicense {
		t.Errorf("first warning = %q", e.Report.Warnings[0])
	}
}

func TestAdd_InsertionOrder(t *testing.T) {
	s := newSet()
	for _, name := range []string{"tokio", "anyhow", "serde"} {
		s.Add(core.Package{Name: name})
	}
	want := []string{"tokio", "anyhow", "serde"}
	if got := s.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestAddByName(t *testing.T) {
	f := &fakeFetcher{packages: map[string]core.Package{
		"serde": {Name: "serde", License: "MIT OR Apache-2.0"},
	}}
	s := newSet()

	if !s.AddByName(context.Background(), f, "serde") {
		t.Fatal("AddByName should add a fetched package")
	}
	if s.AddByName(context.Background(), f, "missing") {
		t.Error("AddByName should report false on fetch failure")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if s.AddByName(context.Background(), f, "serde") {
		t.Error("AddByName of a present name should be a no-op")
	}
	if len(f.calls) != 3 {
		t.Errorf("fetch calls = %v", f.calls)
	}
}

func TestRemoveAt(t *testing.T) {
	s := newSet()
	s.Add(core.Package{Name: "a"})
	s.Add(core.Package{Name: "b"})
	s.Add(core.Package{Name: "c"})

	if !s.RemoveAt(1) {
		t.Fatal("RemoveAt(1) should succeed")
	}
	if got := s.Names(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Names() = %v", got)
	}
	if s.RemoveAt(5) || s.RemoveAt(-1) {
		t.Error("out of range RemoveAt should be ignored")
	}
}

func TestRemoveAt_LastEntry(t *testing.T) {
	s := newSet()
	s.Add(core.Package{Name: "only"})

	if !s.RemoveAt(0) {
		t.Fatal("RemoveAt(0) should succeed")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.Clamp(0); got != 0 {
		t.Errorf("Clamp(0) on empty set = %d, want 0", got)
	}
	if s.RemoveAt(0) {
		t.Error("RemoveAt on empty set should be a no-op")
	}
}

func TestClamp(t *testing.T) {
	s := newSet()
	s.Add(core.Package{Name: "a"})
	s.Add(core.Package{Name: "b"})

	tests := []struct{ in, want int }{
		{0, 0},
		{1, 1},
		{2, 1},
		{9, 1},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := s.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRefresh(t *testing.T) {
	s := newSet()
	s.Add(core.Package{Name: "serde"})
	s.Add(core.Package{Name: "tokio"})

	updated := s.Refresh(map[string]*core.Package{
		"serde": {
			Name:          "serde",
			License:       "MIT",
			Repository:    "https://github.com/serde-rs/serde",
			Documentation: "https://docs.rs/serde",
			MaxVersion:    "1.0.228",
		},
		"unrelated": {Name: "unrelated"},
	})

	if updated != 1 {
		t.Errorf("Refresh updated %d entries, want 1", updated)
	}
	e, _ := s.At(0)
	if e.Package.License != "MIT" || !e.Report.Safe() {
		t.Errorf("serde not refreshed: %+v %v", e.Package, e.Report.Warnings)
	}
	if s.Contains("unrelated") {
		t.Error("Refresh must not add entries")
	}
	if got := s.Names(); !slices.Equal(got, []string{"serde", "tokio"}) {
		t.Errorf("order changed: %v", got)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	s := newSet()
	s.Add(core.Package{Name: "serde"})

	entries := s.Entries()
	entries[0].Package.Name = "mutated"

	if !s.Contains("serde") {
		t.Error("Entries() should not expose internal storage")
	}
}

func TestNotFoundIsSwallowed(t *testing.T) {
	f := &fakeFetcher{}
	s := newSet()
	s.AddByName(context.Background(), f, "ghost")

	_, err := f.Details(context.Background(), "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("fake should return not found, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("failed fetch must not add an entry")
	}
}
