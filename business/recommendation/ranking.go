package recommendation

import (
	"maps"
	"sort"

	"tutorMarket/domain"
)

// sortByScore orders candidates by score desc. Ties fall back to educator
// id so equal scores always rank the same way.
func sortByScore(recs []domain.ScoredCandidate) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].EducatorID < recs[j].EducatorID
	})
}

func truncate(recs []domain.ScoredCandidate, limit int) []domain.ScoredCandidate {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

// derive copies a candidate so later stages never share maps or slices
// with an earlier snapshot.
func derive(c domain.ScoredCandidate) domain.ScoredCandidate {
	out := c
	out.ComponentScores = maps.Clone(c.ComponentScores)
	out.Topics = append([]string(nil), c.Topics...)
	if c.Availability != nil {
		a := *c.Availability
		out.Availability = &a
	}
	return out
}
