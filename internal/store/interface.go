package store

import (
	"context"

	"github.com/guichet-ai/guichet/internal/core/model"
)

// SearchFilters narrow a search to a source, a doc_type and a language.
// Empty fields mean "no filter"; Language is always set by the pipeline.
type SearchFilters struct {
	Source   string
	DocType  string
	Language string
}

type HybridSearchParams struct {
	QueryText  string
	Embedding  []float32
	MatchCount int
	RRFK       int
	Filters    SearchFilters
}

type VectorSearchParams struct {
	Embedding  []float32
	MatchCount int
	Filters    SearchFilters
}

// HybridRow is one ranked row from the store's combined lexical+vector
// search. Score carries the store-side fused score; a rank of 0 means the
// row was absent from that branch.
type HybridRow struct {
	model.SearchResultItem

	SemanticRank int
	KeywordRank  int
}

// VectorRow is one row from a vector-only search; Score is similarity.
type VectorRow struct {
	model.SearchResultItem
}

// DocumentStore is the external document store. Search failures are hard
// errors: the pipeline has no way to answer without retrieval.
type DocumentStore interface {
	HybridSearch(ctx context.Context, p HybridSearchParams) ([]HybridRow, error)
	VectorSearch(ctx context.Context, p VectorSearchParams) ([]VectorRow, error)
	FetchByArticleNumbers(ctx context.Context, numbers []string) ([]model.DocumentChunk, error)
}

// CitationStore resolves legal cross-references: direct article lookup
// and reference discovery for articles whose chunk metadata carries none.
type CitationStore interface {
	FetchArticles(ctx context.Context, numbers []string) ([]model.DocumentChunk, error)
	ReferencedArticleNumbers(ctx context.Context, articleNumber string, limit int) ([]string, error)
}
