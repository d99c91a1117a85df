package security

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// EditDistance returns the Levenshtein distance between a and b, counted
// in runes. The comparison is case-sensitive.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Match kinds returned by SimilarTo.
const (
	MatchNone = iota
	MatchAffix
	MatchEdit
)

// SimilarTo compares name against targets in order and returns the first
// target it resembles along with how it matched. A name equal to a target
// never matches that target.
//
// An affix match is a name that starts or ends with the target and is one
// to three runes longer. Otherwise an edit match needs a length difference
// of at most two and an edit distance of at most two.
func SimilarTo(name string, targets []string) (string, int) {
	nameLen := utf8.RuneCountInString(name)
	for _, target := range targets {
		if name == target {
			continue
		}
		targetLen := utf8.RuneCountInString(target)

		if strings.HasPrefix(name, target) || strings.HasSuffix(name, target) {
			if extra := nameLen - targetLen; extra >= 1 && extra <= 3 {
				return target, MatchAffix
			}
		}

		diff := nameLen - targetLen
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 && EditDistance(name, target) <= 2 {
			return target, MatchEdit
		}
	}
	return "", MatchNone
}
