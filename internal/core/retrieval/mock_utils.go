package retrieval

import (
	"context"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/store"
)

type MockDocumentStore struct {
	HybridRows []store.HybridRow
	VectorRows []store.VectorRow
	Chunks     []model.DocumentChunk
	Err        error

	HybridCalls []store.HybridSearchParams
	VectorCalls []store.VectorSearchParams
}

func (m *MockDocumentStore) HybridSearch(ctx context.Context, p store.HybridSearchParams) ([]store.HybridRow, error) {
	m.HybridCalls = append(m.HybridCalls, p)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.HybridRows, nil
}

func (m *MockDocumentStore) VectorSearch(ctx context.Context, p store.VectorSearchParams) ([]store.VectorRow, error) {
	m.VectorCalls = append(m.VectorCalls, p)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.VectorRows, nil
}

func (m *MockDocumentStore) FetchByArticleNumbers(ctx context.Context, numbers []string) ([]model.DocumentChunk, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Chunks, nil
}
