// Package util provides small string helpers shared by the CLI and doctor.
package util

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the largest edit distance SuggestSimilar accepts.
const maxSuggestDistance = 2

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
func JoinOrNone(items []string) string {
	return JoinOrDefault(items, "(none)")
}

// JoinOrDefault joins strings with ", " or returns the default value for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// LevenshteinDistance returns the edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// SuggestSimilar returns up to limit candidates within a small edit distance
// of input, closest first. Comparison ignores case; ties keep candidate order.
func SuggestSimilar(input string, candidates []string, limit int) []string {
	if input == "" || len(candidates) == 0 {
		return nil
	}
	in := strings.ToLower(input)

	type match struct {
		name string
		dist int
	}
	var matches []match
	for _, c := range candidates {
		if d := LevenshteinDistance(in, strings.ToLower(c)); d <= maxSuggestDistance {
			matches = append(matches, match{c, d})
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
