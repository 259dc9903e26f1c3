package llm

import (
	"context"
	"errors"
	"time"
)

// ErrRateLimited is returned by provider clients when the upstream rejects
// a call for throughput reasons. The embedding pipeline retries on it with
// backoff; everything else treats it like any other provider error.
var ErrRateLimited = errors.New("provider rate limit exceeded")

// Per-call deadlines for provider calls. A hung provider must fail the
// stage, not stall the request.
const (
	generateTimeout = 60 * time.Second
	embedTimeout    = 30 * time.Second
)

// callContext bounds one provider call. A sooner parent deadline wins.
func callContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

// LLMClient is the general-purpose instructable model used for the narrow
// single-task calls (translation, reformulation, expansion, compaction
// summary, verification).
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// RankedDocument is one rerank result: the index into the submitted
// document list and the cross-encoder relevance score.
type RankedDocument struct {
	Index int
	Score float64
}

// RerankerClient scores documents against a query with a cross-encoder
// model and returns them ordered by relevance, best first.
type RerankerClient interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedDocument, error)
}
