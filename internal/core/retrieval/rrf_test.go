package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guichet-ai/guichet/internal/core/model"
)

func candidate(id string) model.RankedCandidate {
	return model.RankedCandidate{
		SearchResultItem: model.SearchResultItem{ID: id, Content: "contenu " + id},
	}
}

func TestFuseRRFBothLists(t *testing.T) {
	// X at rank 1 in A and rank 3 in B: 1/61 + 1/63.
	a := []model.RankedCandidate{candidate("x"), candidate("a2")}
	b := []model.RankedCandidate{candidate("b1"), candidate("b2"), candidate("x")}

	out := FuseRRF(a, b, 10)

	var x model.RankedCandidate
	for _, c := range out {
		if c.ID == "x" {
			x = c
		}
	}
	assert.InDelta(t, 1.0/61+1.0/63, x.RRFScore, 1e-12)
	// Summed contributions beat any single-list item: x ranks first.
	assert.Equal(t, "x", out[0].ID)
}

func TestFuseRRFSingleListScore(t *testing.T) {
	a := []model.RankedCandidate{candidate("only"), candidate("second")}

	out := FuseRRF(a, nil, 10)

	assert.InDelta(t, 1.0/61, out[0].RRFScore, 1e-12)
	assert.InDelta(t, 1.0/62, out[1].RRFScore, 1e-12)
}

func TestFuseRRFMonotonicAndTruncated(t *testing.T) {
	a := []model.RankedCandidate{candidate("a"), candidate("b"), candidate("c")}
	b := []model.RankedCandidate{candidate("c"), candidate("d"), candidate("e")}

	out := FuseRRF(a, b, 4)

	assert.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].RRFScore, out[i].RRFScore)
	}
}

func TestFuseRRFKeepsFieldsFromOwningList(t *testing.T) {
	a := []model.RankedCandidate{
		{
			SearchResultItem: model.SearchResultItem{ID: "h1", Source: model.SourceLegifrance},
			SemanticRank:     1,
			KeywordRank:      2,
		},
	}
	b := []model.RankedCandidate{
		{
			SearchResultItem: model.SearchResultItem{ID: "v1", Source: model.SourceServicePublic},
			SemanticRank:     1,
		},
	}

	out := FuseRRF(a, b, 10)

	byID := map[string]model.RankedCandidate{}
	for _, c := range out {
		byID[c.ID] = c
	}
	assert.Equal(t, model.SourceLegifrance, byID["h1"].Source)
	assert.Equal(t, 2, byID["h1"].KeywordRank)
	assert.Equal(t, model.SourceServicePublic, byID["v1"].Source)
	assert.Equal(t, 1, byID["v1"].SemanticRank)
}
