package matching

import (
	"cmp"
	"slices"

	"anoa.com/lostfound/internal/entity"
)

// MatchCandidate is a scored report from a candidate pool. It is never stored.
type MatchCandidate struct {
	Item  entity.ItemReport
	Score int
}

// FindMatches scores every report in pool against subject and keeps those with a
// score strictly above minScore, highest first and newest first on ties.
//
// The pool is used as given: callers hand in active reports of the opposite kind.
func FindMatches(subject *entity.ItemReport, pool []entity.ItemReport, minScore int) []MatchCandidate {
	matches := make([]MatchCandidate, 0)
	if subject == nil {
		return matches
	}

	for _, candidate := range pool {
		score := Score(subject.Name, subject.Location, candidate.Name, candidate.Location)
		if score <= minScore {
			continue
		}
		matches = append(matches, MatchCandidate{Item: candidate, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b MatchCandidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return b.Item.CreatedAt.Compare(a.Item.CreatedAt)
	})

	return matches
}
