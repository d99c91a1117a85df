package security

import (
	"strings"

	"github.com/git-pkgs/spdx"
)

// NormalizeLicense returns the canonical SPDX expression for license,
// or the trimmed input when it cannot be normalized.
func NormalizeLicense(license string) string {
	license = strings.TrimSpace(license)
	if license == "" {
		return ""
	}
	normalized, err := spdx.Normalize(license)
	if err != nil || normalized == "" {
		return license
	}
	return normalized
}
