package matching

import "strings"

// Score tiers. Exact on both fields yields 80; the nominal 100 ceiling is never reached.
const (
	NameExactScore        = 50
	NameContainsScore     = 30
	LocationExactScore    = 30
	LocationContainsScore = 15

	MaxScore = NameExactScore + LocationExactScore
)

// Score compares a query (name, location) pair with a candidate pair.
//
// Both fields are trimmed and compared case-insensitively. Each field scores its
// exact tier on equality, its substring tier when either side contains the other,
// and zero otherwise. A field that is blank on either side scores zero.
func Score(queryName, queryLocation, candidateName, candidateLocation string) int {
	return tier(queryName, candidateName, NameExactScore, NameContainsScore) +
		tier(queryLocation, candidateLocation, LocationExactScore, LocationContainsScore)
}

func tier(a, b string, exact, contains int) int {
	a = normalize(a)
	b = normalize(b)
	if a == "" || b == "" {
		return 0
	}

	switch {
	case a == b:
		return exact
	case strings.Contains(a, b), strings.Contains(b, a):
		return contains
	default:
		return 0
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
