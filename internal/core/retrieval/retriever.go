package retrieval

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/store"
)

const (
	// maxCandidates caps the pool handed to the reranker regardless of
	// the requested result count.
	maxCandidates = 20

	// maxKeywordExpansions bounds how many expansion phrases join the
	// OR-query; more dilutes the lexical ranking.
	maxKeywordExpansions = 2
)

// Input is one retrieval request. OriginalEmbedding is only set when the
// detected language differs from the pivot; its presence switches on the
// bilingual branch.
type Input struct {
	PivotQuery        string
	Expansions        []string
	PivotEmbedding    []float32
	OriginalEmbedding []float32
	Limit             int
	Filters           store.SearchFilters
}

type Retriever struct {
	store store.DocumentStore
}

func New(s store.DocumentStore) *Retriever {
	return &Retriever{store: s}
}

// CandidateCount is the rerank pool size for a final result count.
func CandidateCount(limit int) int {
	count := 2 * limit
	if count > maxCandidates {
		count = maxCandidates
	}
	if count < 1 {
		count = 1
	}
	return count
}

// BuildKeywordQuery joins the pivot query with up to two expansion
// phrases as an OR-query for the lexical branch.
func BuildKeywordQuery(query string, expansions []string) string {
	parts := []string{query}
	for i, e := range expansions {
		if i >= maxKeywordExpansions {
			break
		}
		if strings.TrimSpace(e) != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " OR ")
}

// Retrieve runs the hybrid search, and when an original-language
// embedding exists, a parallel vector-only search merged in via RRF.
func (r *Retriever) Retrieve(ctx context.Context, in Input) ([]model.RankedCandidate, error) {
	count := CandidateCount(in.Limit)
	keywordQuery := BuildKeywordQuery(in.PivotQuery, in.Expansions)

	hybridParams := store.HybridSearchParams{
		QueryText:  keywordQuery,
		Embedding:  in.PivotEmbedding,
		MatchCount: count,
		RRFK:       rrfK,
		Filters:    in.Filters,
	}

	if len(in.OriginalEmbedding) == 0 {
		rows, err := r.store.HybridSearch(ctx, hybridParams)
		if err != nil {
			return nil, fmt.Errorf("retrieval failed: %w", err)
		}
		return hybridCandidates(rows), nil
	}

	var (
		hybridRows []store.HybridRow
		vectorRows []store.VectorRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hybridRows, err = r.store.HybridSearch(gctx, hybridParams)
		return err
	})
	g.Go(func() error {
		var err error
		vectorRows, err = r.store.VectorSearch(gctx, store.VectorSearchParams{
			Embedding:  in.OriginalEmbedding,
			MatchCount: count,
			Filters:    in.Filters,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	return FuseRRF(hybridCandidates(hybridRows), vectorCandidates(vectorRows), count), nil
}

func hybridCandidates(rows []store.HybridRow) []model.RankedCandidate {
	out := make([]model.RankedCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.RankedCandidate{
			SearchResultItem: row.SearchResultItem,
			SemanticRank:     row.SemanticRank,
			KeywordRank:      row.KeywordRank,
			RRFScore:         row.Score,
		})
	}
	return out
}

func vectorCandidates(rows []store.VectorRow) []model.RankedCandidate {
	out := make([]model.RankedCandidate, 0, len(rows))
	for i, row := range rows {
		out = append(out, model.RankedCandidate{
			SearchResultItem: row.SearchResultItem,
			SemanticRank:     i + 1,
			RRFScore:         row.Score,
		})
	}
	return out
}
