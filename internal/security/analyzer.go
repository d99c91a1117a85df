// Package security implements best-effort heuristics that flag risky or
// low-quality crates. It is linting, not verification.
package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/git-pkgs/cratescope/internal/core"
)

// Warning messages.
const (
	WarnNoLicense    = "No license specified"
	WarnCopyleft     = "GPL license may require derivative works to be open-sourced"
	WarnRapidGrowth  = "New package with unusually high download count"
	WarnNoRepository = "No repository link"
	WarnNoDocs       = "No documentation link"
	WarnEarlyVersion = "Very early version - may not be stable"
)

const (
	newPackageWindow = 30 * 24 * time.Hour
	rapidGrowthLimit = 10_000
	earlyVersion     = "0.0."
)

// Report is the outcome of analyzing one package.
type Report struct {
	Warnings []string
}

// Safe reports whether no warnings were raised.
func (r Report) Safe() bool {
	return len(r.Warnings) == 0
}

// Analyzer runs the heuristics. The zero value has empty tables; use
// Default for the production configuration.
type Analyzer struct {
	PopularNames        []string
	CommonLicenseTokens []string
	Now                 func() time.Time
}

// Default returns an analyzer using the built-in tables and wall clock.
func Default() *Analyzer {
	return &Analyzer{
		PopularNames:        PopularNames,
		CommonLicenseTokens: CommonLicenseTokens,
		Now:                 time.Now,
	}
}

// Analyze checks pkg and returns its warnings in a fixed order: license,
// growth, name similarity, repository, documentation, version.
func (a *Analyzer) Analyze(pkg core.Package) Report {
	var warnings []string
	warnings = append(warnings, a.checkLicense(pkg.License)...)
	if w, ok := a.checkGrowth(pkg); ok {
		warnings = append(warnings, w)
	}
	if w, ok := a.checkName(pkg.Name); ok {
		warnings = append(warnings, w)
	}
	if strings.TrimSpace(pkg.Repository) == "" {
		warnings = append(warnings, WarnNoRepository)
	}
	if strings.TrimSpace(pkg.Documentation) == "" {
		warnings = append(warnings, WarnNoDocs)
	}
	if strings.HasPrefix(pkg.MaxVersion, earlyVersion) {
		warnings = append(warnings, WarnEarlyVersion)
	}
	return Report{Warnings: warnings}
}

func (a *Analyzer) checkLicense(license string) []string {
	if strings.TrimSpace(license) == "" {
		return []string{WarnNoLicense}
	}

	var warnings []string
	lower := strings.ToLower(license)

	common := false
	for _, token := range a.CommonLicenseTokens {
		if strings.Contains(lower, token) {
			common = true
			break
		}
	}
	if !common {
		warnings = append(warnings, fmt.Sprintf("Uncommon license: '%s' - verify before use", license))
	}

	if strings.Contains(lower, "gpl") && !strings.Contains(lower, "lgpl") {
		warnings = append(warnings, WarnCopyleft)
	}
	return warnings
}

func (a *Analyzer) checkGrowth(pkg core.Package) (string, bool) {
	created, err := time.Parse(time.RFC3339, pkg.CreatedAt)
	if err != nil {
		return "", false
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	if now().Sub(created) < newPackageWindow && pkg.Downloads > rapidGrowthLimit {
		return WarnRapidGrowth, true
	}
	return "", false
}

func (a *Analyzer) checkName(name string) (string, bool) {
	target, kind := SimilarTo(strings.ToLower(name), a.PopularNames)
	switch kind {
	case MatchAffix:
		return fmt.Sprintf("Name suspiciously similar to '%s'", target), true
	case MatchEdit:
		return fmt.Sprintf("Name similar to popular package '%s'", target), true
	default:
		return "", false
	}
}
