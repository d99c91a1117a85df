// Package core provides shared types and the registry system.
package core

import "strings"

// Package represents metadata about a package from a registry. Optional
// string fields are empty when the registry did not report them.
type Package struct {
	Name            string
	Description     string
	Downloads       int64
	RecentDownloads int64
	CreatedAt       string // ISO-8601, as reported by the registry
	UpdatedAt       string
	Documentation   string
	Repository      string
	Homepage        string
	MaxVersion      string
	License         string
	Keywords        []string
	Categories      []string
}

// HasLicense reports whether a non-blank license is present.
func (p Package) HasLicense() bool {
	return strings.TrimSpace(p.License) != ""
}

// Repository represents a source repository, as listed on the
// Trending tab.
type Repository struct {
	Name        string
	FullName    string
	URL         string
	Description string
	Stars       int64
	Forks       int64
	Language    string
}

// Period selects the window used for trending repositories.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Periods lists the supported trending windows in cycling order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}

// Next returns the period after p, wrapping around. Unknown periods
// map to weekly.
func (p Period) Next() Period {
	for i, candidate := range Periods {
		if candidate == p {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return PeriodWeekly
}

// Valid reports whether p is one of Periods.
func (p Period) Valid() bool {
	for _, candidate := range Periods {
		if candidate == p {
			return true
		}
	}
	return false
}
