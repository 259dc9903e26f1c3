package retrieval

import (
	"sort"

	"github.com/guichet-ai/guichet/internal/core/model"
)

// rrfK is the standard reciprocal-rank-fusion constant: an item at
// 1-indexed rank r contributes 1/(rrfK+r).
const rrfK = 60

// FuseRRF merges two ranked candidate lists by reciprocal rank fusion.
// An item present in both lists sums its contributions; field population
// comes from whichever list carries the item (the first list wins when
// both do). The result is sorted by fused score descending and truncated
// to limit.
func FuseRRF(a, b []model.RankedCandidate, limit int) []model.RankedCandidate {
	merged := make(map[string]*model.RankedCandidate, len(a)+len(b))
	order := make([]string, 0, len(a)+len(b))

	accumulate := func(list []model.RankedCandidate) {
		for i, c := range list {
			contribution := 1.0 / float64(rrfK+i+1)
			if existing, ok := merged[c.ID]; ok {
				existing.RRFScore += contribution
				if existing.SemanticRank == 0 {
					existing.SemanticRank = c.SemanticRank
				}
				if existing.KeywordRank == 0 {
					existing.KeywordRank = c.KeywordRank
				}
				continue
			}
			entry := c
			entry.RRFScore = contribution
			merged[c.ID] = &entry
			order = append(order, c.ID)
		}
	}
	accumulate(a)
	accumulate(b)

	out := make([]model.RankedCandidate, 0, len(order))
	for _, id := range order {
		c := *merged[id]
		c.Score = c.RRFScore
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RRFScore > out[j].RRFScore
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
