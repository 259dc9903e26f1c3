package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guichet-ai/guichet/internal/llm"
)

const (
	defaultBatchSize   = 20
	defaultBatchDelay  = 100 * time.Millisecond
	defaultBaseDelay   = time.Second
	defaultMaxAttempts = 5
)

// Cache is an optional read-through store for query embeddings. Both
// methods are fail-soft: a broken cache must never fail an embedding.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, vector []float32)
}

// Embedder wraps the provider's embedding client with batching, an
// inter-batch delay to respect throughput limits, and rate-limit retries.
// Retry exhaustion is a hard error: there is no retrieval without
// embeddings.
type Embedder struct {
	client llm.EmbedderClient
	cache  Cache

	batchSize   int
	batchDelay  time.Duration
	baseDelay   time.Duration
	maxAttempts int

	// sleep is injectable so retry and pacing timing is testable without
	// real waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

type Option func(*Embedder)

func WithCache(c Cache) Option {
	return func(e *Embedder) { e.cache = c }
}

func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Embedder) { e.sleep = fn }
}

func WithRetry(baseDelay time.Duration, maxAttempts int) Option {
	return func(e *Embedder) {
		e.baseDelay = baseDelay
		e.maxAttempts = maxAttempts
	}
}

func New(client llm.EmbedderClient, opts ...Option) *Embedder {
	e := &Embedder{
		client:      client,
		batchSize:   defaultBatchSize,
		batchDelay:  defaultBatchDelay,
		baseDelay:   defaultBaseDelay,
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BackoffDelay is the pure retry policy: attempt 0 waits base, each
// subsequent attempt doubles it.
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
	}
	return d
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache != nil {
		if vec, ok := e.cache.Get(ctx, text); ok {
			return vec, nil
		}
	}
	vecs, err := e.embedWithRetry(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(ctx, text, vecs[0])
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in provider-sized batches, serialized with a
// fixed delay between successive batches.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		if start > 0 {
			if err := e.sleep(ctx, e.batchDelay); err != nil {
				return nil, err
			}
		}
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.embedWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		vecs, err := e.client.EmbedBatch(ctx, texts)
		if err == nil {
			if len(vecs) != len(texts) {
				return nil, fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(vecs), len(texts))
			}
			return vecs, nil
		}
		if !errors.Is(err, llm.ErrRateLimited) {
			return nil, err
		}
		lastErr = err
		if attempt+1 < e.maxAttempts {
			if err := e.sleep(ctx, BackoffDelay(e.baseDelay, attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", e.maxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
