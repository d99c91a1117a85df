// Package compare holds the packages a user has picked for side-by-side
// comparison, each with its security report.
package compare

import (
	"context"
	"log/slog"

	"github.com/git-pkgs/cratescope/internal/core"
	"github.com/git-pkgs/cratescope/internal/security"
)

// Entry is one compared package.
type Entry struct {
	Package  core.Package
	Report   security.Report
	Selected bool
}

// Fetcher loads full package details by name.
type Fetcher interface {
	Details(ctx context.Context, name string) (*core.Package, error)
}

// Set is an insertion-ordered list of entries with unique names.
// It is not safe for concurrent use.
type Set struct {
	analyzer *security.Analyzer
	entries  []Entry
	logger   *slog.Logger
}

// New returns an empty set that analyzes entries with analyzer. A nil
// analyzer means security.Default().
func New(analyzer *security.Analyzer, logger *slog.Logger) *Set {
	if analyzer == nil {
		analyzer = security.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Set{analyzer: analyzer, logger: logger}
}

// Add appends pkg unless an entry with the same name exists. It reports
// whether the set changed.
func (s *Set) Add(pkg core.Package) bool {
	if s.Contains(pkg.Name) {
		return false
	}
	s.entries = append(s.entries, Entry{
		Package: pkg,
		Report:  s.analyzer.Analyze(pkg),
	})
	return true
}

// AddByName fetches name and adds it. Fetch failures are logged and
// otherwise ignored.
func (s *Set) AddByName(ctx context.Context, src Fetcher, name string) bool {
	pkg, err := src.Details(ctx, name)
	if err != nil || pkg == nil {
		s.logger.Debug("comparison add failed", "name", name, "error", err)
		return false
	}
	return s.Add(*pkg)
}

// RemoveAt deletes the entry at i. Out of range indexes are ignored.
func (s *Set) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.entries) {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Clamp returns i limited to a valid index, or 0 for an empty set.
func (s *Set) Clamp(i int) int {
	switch {
	case len(s.entries) == 0 || i < 0:
		return 0
	case i >= len(s.entries):
		return len(s.entries) - 1
	default:
		return i
	}
}

// Refresh replaces the snapshots of entries whose names appear in pkgs
// and recomputes their reports. Order is unchanged.
func (s *Set) Refresh(pkgs map[string]*core.Package) int {
	updated := 0
	for i := range s.entries {
		pkg, ok := pkgs[s.entries[i].Package.Name]
		if !ok || pkg == nil {
			continue
		}
		s.entries[i].Package = *pkg
		s.entries[i].Report = s.analyzer.Analyze(*pkg)
		updated++
	}
	return updated
}

// Names returns the entry names in order.
func (s *Set) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Package.Name
	}
	return names
}

func (s *Set) Contains(name string) bool {
	for _, e := range s.entries {
		if e.Package.Name == name {
			return true
		}
	}
	return false
}

func (s *Set) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

func (s *Set) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in insertion order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
