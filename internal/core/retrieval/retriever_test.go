package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/store"
)

func hybridRow(id string, score float64) store.HybridRow {
	return store.HybridRow{
		SearchResultItem: model.SearchResultItem{ID: id, Score: score},
	}
}

func TestCandidateCount(t *testing.T) {
	assert.Equal(t, 10, CandidateCount(5))
	assert.Equal(t, 20, CandidateCount(15)) // capped
	assert.Equal(t, 1, CandidateCount(0))
}

func TestBuildKeywordQuery(t *testing.T) {
	q := BuildKeywordQuery("renouveler titre de séjour", []string{
		"renouvellement de titre de séjour",
		"carte de séjour pluriannuelle",
		"document de circulation", // third expansion is dropped
	})
	assert.Equal(t,
		"renouveler titre de séjour OR renouvellement de titre de séjour OR carte de séjour pluriannuelle",
		q)

	assert.Equal(t, "carte grise", BuildKeywordQuery("carte grise", nil))
}

func TestRetrieveMonolingual(t *testing.T) {
	mock := &MockDocumentStore{
		HybridRows: []store.HybridRow{hybridRow("a", 0.9), hybridRow("b", 0.5)},
	}
	r := New(mock)

	out, err := r.Retrieve(context.Background(), Input{
		PivotQuery:     "renouveler titre de séjour",
		PivotEmbedding: []float32{0.1, 0.2},
		Limit:          5,
		Filters:        store.SearchFilters{Language: "fr"},
	})

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 0.9, out[0].RRFScore)
	assert.Len(t, mock.HybridCalls, 1)
	assert.Empty(t, mock.VectorCalls)
	assert.Equal(t, 10, mock.HybridCalls[0].MatchCount)
	assert.Equal(t, 60, mock.HybridCalls[0].RRFK)
}

func TestRetrieveBilingualMergesBranches(t *testing.T) {
	mock := &MockDocumentStore{
		HybridRows: []store.HybridRow{hybridRow("shared", 0.8), hybridRow("fr-only", 0.6)},
		VectorRows: []store.VectorRow{
			{SearchResultItem: model.SearchResultItem{ID: "shared", Score: 0.7}},
			{SearchResultItem: model.SearchResultItem{ID: "en-only", Score: 0.4}},
		},
	}
	r := New(mock)

	out, err := r.Retrieve(context.Background(), Input{
		PivotQuery:        "renouveler titre de séjour",
		PivotEmbedding:    []float32{0.1},
		OriginalEmbedding: []float32{0.2},
		Limit:             5,
	})

	assert.NoError(t, err)
	assert.Len(t, mock.HybridCalls, 1)
	assert.Len(t, mock.VectorCalls, 1)
	assert.Len(t, out, 3)
	// Present in both branches at rank 1 each: 2/61.
	assert.Equal(t, "shared", out[0].ID)
	assert.InDelta(t, 2.0/61, out[0].RRFScore, 1e-12)
}

func TestRetrieveStoreFailureIsHard(t *testing.T) {
	mock := &MockDocumentStore{Err: errors.New("connection refused")}
	r := New(mock)

	_, err := r.Retrieve(context.Background(), Input{
		PivotQuery:     "carte grise",
		PivotEmbedding: []float32{0.1},
		Limit:          5,
	})

	assert.Error(t, err)
}
