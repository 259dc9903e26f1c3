package crossref

import (
	"context"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/store"
)

type MockCitationStore struct {
	References map[string][]string
	Err        error

	FetchedNumbers []string
}

func (m *MockCitationStore) FetchArticles(ctx context.Context, numbers []string) ([]model.DocumentChunk, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.FetchedNumbers = numbers
	out := make([]model.DocumentChunk, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, model.DocumentChunk{
			ID:            "chunk-" + n,
			ArticleNumber: n,
			Content:       "texte de l'article " + n,
			Source:        model.SourceLegifrance,
			DocType:       model.DocTypeArticle,
			Language:      "fr",
		})
	}
	return out, nil
}

func (m *MockCitationStore) ReferencedArticleNumbers(ctx context.Context, articleNumber string, limit int) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	refs := m.References[articleNumber]
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// MockDocumentStore covers the document-store fetch path; the search
// methods are never reached from this package.
type MockDocumentStore struct {
	Err error

	FetchedNumbers []string
}

func (m *MockDocumentStore) HybridSearch(ctx context.Context, p store.HybridSearchParams) ([]store.HybridRow, error) {
	return nil, nil
}

func (m *MockDocumentStore) VectorSearch(ctx context.Context, p store.VectorSearchParams) ([]store.VectorRow, error) {
	return nil, nil
}

func (m *MockDocumentStore) FetchByArticleNumbers(ctx context.Context, numbers []string) ([]model.DocumentChunk, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.FetchedNumbers = numbers
	out := make([]model.DocumentChunk, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, model.DocumentChunk{
			ID:            "chunk-" + n,
			ArticleNumber: n,
			Content:       "texte de l'article " + n,
			Source:        model.SourceLegifrance,
			DocType:       model.DocTypeArticle,
			Language:      "fr",
		})
	}
	return out, nil
}
