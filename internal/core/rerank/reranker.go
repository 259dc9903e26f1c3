package rerank

import (
	"context"
	"log"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/llm"
)

// Reranker rescores retrieval candidates with a cross-encoder. With no
// client configured, or when the provider fails, it degrades to the input
// order with synthetic monotonically decreasing scores so downstream
// consumers of the score field still behave sensibly.
type Reranker struct {
	client llm.RerankerClient
}

func New(client llm.RerankerClient) *Reranker {
	return &Reranker{client: client}
}

func (r *Reranker) Rerank(ctx context.Context, query string, candidates []model.RankedCandidate, topN int) []model.SearchResultItem {
	if len(candidates) == 0 {
		return nil
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	if r.client == nil {
		return degraded(candidates, topN)
	}

	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Content
	}

	ranked, err := r.client.Rerank(ctx, query, documents, topN)
	if err != nil {
		log.Printf("rerank failed, keeping retrieval order: %v", err)
		return degraded(candidates, topN)
	}

	out := make([]model.SearchResultItem, 0, topN)
	for _, doc := range ranked {
		if len(out) == topN {
			break
		}
		item := candidates[doc.Index].SearchResultItem
		item.Score = doc.Score
		out = append(out, item)
	}
	if len(out) == 0 {
		return degraded(candidates, topN)
	}
	return out
}

// degraded preserves input order with score 1 - i/n.
func degraded(candidates []model.RankedCandidate, topN int) []model.SearchResultItem {
	n := len(candidates)
	out := make([]model.SearchResultItem, 0, topN)
	for i, c := range candidates {
		if i == topN {
			break
		}
		item := c.SearchResultItem
		// (n-i)/n rather than 1-i/n: same value, but exact in binary
		// floating point at the scores callers compare against.
		item.Score = float64(n-i) / float64(n)
		out = append(out, item)
	}
	return out
}
