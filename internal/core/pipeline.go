package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/guichet-ai/guichet/internal/core/compact"
	"github.com/guichet-ai/guichet/internal/core/crossref"
	"github.com/guichet-ai/guichet/internal/core/embed"
	"github.com/guichet-ai/guichet/internal/core/lang"
	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/core/quality"
	"github.com/guichet-ai/guichet/internal/core/rerank"
	"github.com/guichet-ai/guichet/internal/core/retrieval"
	"github.com/guichet-ai/guichet/internal/core/verify"
	"github.com/guichet-ai/guichet/internal/store"
)

const defaultLimit = 5

// Pipeline is the retrieval-augmentation flow: normalize the query into
// the pivot language, retrieve bilingually, rerank, expand legal
// cross-references, gate on retrieval quality, and compact the history
// for the generation collaborator. One stateless instance serves all
// requests concurrently.
type Pipeline struct {
	normalizer *lang.Normalizer
	embedder   *embed.Embedder
	retriever  *retrieval.Retriever
	reranker   *rerank.Reranker
	expander   *crossref.Expander
	compactor  *compact.Compactor
	verifier   *verify.Verifier
}

func NewPipeline(
	normalizer *lang.Normalizer,
	embedder *embed.Embedder,
	retriever *retrieval.Retriever,
	reranker *rerank.Reranker,
	expander *crossref.Expander,
	compactor *compact.Compactor,
	verifier *verify.Verifier,
) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		embedder:   embedder,
		retriever:  retriever,
		reranker:   reranker,
		expander:   expander,
		compactor:  compactor,
		verifier:   verifier,
	}
}

type Request struct {
	Query   string
	History []model.ConversationMessage
	Limit   int
	Source  string
	DocType string
}

type QueryInfo struct {
	OriginalQuery    string `json:"original_query"`
	DetectedLanguage string `json:"detected_language"`
	PivotQuery       string `json:"pivot_query"`
}

type Response struct {
	Results   []model.SearchResultItem    `json:"results"`
	QueryInfo QueryInfo                   `json:"query_info"`
	Total     int                         `json:"total"`
	Quality   model.QualityAssessment     `json:"quality"`
	Messages  []model.ConversationMessage `json:"messages"`
}

// Retrieve runs one full retrieval pass. Store and embedding failures
// are hard errors; every collaborator stage inside fails open.
func (p *Pipeline) Retrieve(ctx context.Context, req Request) (*Response, error) {
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}

	detected := lang.Detect(req.Query)
	standalone := p.normalizer.Reformulate(ctx, req.History, req.Query)
	pivotQuery := p.normalizer.TranslateToPivot(ctx, standalone, detected)

	// Expansion and the embeddings are independent: fan out, join before
	// retrieval.
	var (
		expansions        []string
		pivotEmbedding    []float32
		originalEmbedding []float32
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expansions = p.normalizer.Expand(gctx, pivotQuery)
		return nil
	})
	g.Go(func() error {
		var err error
		pivotEmbedding, err = p.embedder.Embed(gctx, pivotQuery)
		return err
	})
	if detected != lang.Pivot {
		g.Go(func() error {
			var err error
			originalEmbedding, err = p.embedder.Embed(gctx, standalone)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	candidates, err := p.retriever.Retrieve(ctx, retrieval.Input{
		PivotQuery:        pivotQuery,
		Expansions:        expansions,
		PivotEmbedding:    pivotEmbedding,
		OriginalEmbedding: originalEmbedding,
		Limit:             req.Limit,
		Filters: store.SearchFilters{
			Source:   req.Source,
			DocType:  req.DocType,
			Language: lang.Pivot,
		},
	})
	if err != nil {
		return nil, err
	}

	results := p.reranker.Rerank(ctx, pivotQuery, candidates, req.Limit)
	results = p.expander.Expand(ctx, results)

	return &Response{
		Results: results,
		QueryInfo: QueryInfo{
			OriginalQuery:    req.Query,
			DetectedLanguage: detected,
			PivotQuery:       pivotQuery,
		},
		Total:    len(results),
		Quality:  quality.Assess(results),
		Messages: p.compactor.Compact(ctx, req.History),
	}, nil
}

// Verify checks a generated answer against the evidence it was grounded
// on. Consumes the generation collaborator's output.
func (p *Pipeline) Verify(ctx context.Context, answer string, results []model.SearchResultItem) model.VerificationResult {
	return p.verifier.Verify(ctx, answer, FormatEvidence(results))
}
