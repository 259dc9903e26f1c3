package rerank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/llm"
)

type mockRerankerClient struct {
	ranked []llm.RankedDocument
	err    error

	lastQuery string
	lastDocs  []string
}

func (m *mockRerankerClient) Rerank(ctx context.Context, query string, documents []string, topN int) ([]llm.RankedDocument, error) {
	m.lastQuery = query
	m.lastDocs = documents
	if m.err != nil {
		return nil, m.err
	}
	return m.ranked, nil
}

func candidates(n int) []model.RankedCandidate {
	out := make([]model.RankedCandidate, n)
	for i := range out {
		out[i] = model.RankedCandidate{
			SearchResultItem: model.SearchResultItem{
				ID:      string(rune('a' + i)),
				Content: "passage",
			},
		}
	}
	return out
}

func TestRerankNoProviderSyntheticScores(t *testing.T) {
	r := New(nil)

	out := r.Rerank(context.Background(), "titre de séjour", candidates(5), 5)

	assert.Len(t, out, 5)
	scores := make([]float64, len(out))
	for i, item := range out {
		scores[i] = item.Score
	}
	assert.Equal(t, []float64{1.0, 0.8, 0.6, 0.4, 0.2}, scores)
	// Input order preserved.
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "e", out[4].ID)
}

func TestRerankProviderOrder(t *testing.T) {
	mock := &mockRerankerClient{
		ranked: []llm.RankedDocument{
			{Index: 2, Score: 0.95},
			{Index: 0, Score: 0.40},
			{Index: 1, Score: 0.10},
		},
	}
	r := New(mock)

	out := r.Rerank(context.Background(), "naturalisation", candidates(3), 2)

	assert.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, 0.95, out[0].Score)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "naturalisation", mock.lastQuery)
	assert.Len(t, mock.lastDocs, 3)
}

func TestRerankProviderFailureFallsBack(t *testing.T) {
	r := New(&mockRerankerClient{err: errors.New("service unavailable")})

	out := r.Rerank(context.Background(), "carte grise", candidates(4), 4)

	assert.Len(t, out, 4)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, 1.0, out[0].Score)
}

func TestRerankEmptyInput(t *testing.T) {
	r := New(nil)
	assert.Nil(t, r.Rerank(context.Background(), "q", nil, 5))
}
