// Package cache provides a Redis read-through cache for query
// embeddings. Identical queries recur constantly ("comment renouveler
// mon passeport"), and embedding calls are the slowest metered step of
// the pipeline, so hits skip the provider entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "guichet:emb:"
	defaultTTL = 24 * time.Hour

	// opTimeout bounds every cache round trip; a slow Redis must cost at
	// most this, since a miss only means re-embedding.
	opTimeout = time.Second
)

// EmbeddingCache satisfies embed.Cache. Every Redis failure is soft: a
// broken cache degrades to always-miss, never to a failed request.
type EmbeddingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewEmbeddingCache(rdb *redis.Client) *EmbeddingCache {
	return &EmbeddingCache{rdb: rdb, ttl: defaultTTL}
}

func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	data, err := c.rdb.Get(ctx, cacheKey(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("embedding cache read failed: %v", err)
		}
		return nil, false
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		log.Printf("embedding cache entry corrupt, ignoring: %v", err)
		return nil, false
	}
	return vector, true
}

func (c *EmbeddingCache) Set(ctx context.Context, text string, vector []float32) {
	data, err := json.Marshal(vector)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, cacheKey(text), data, c.ttl).Err(); err != nil {
		log.Printf("embedding cache write failed: %v", err)
	}
}

// cacheKey hashes the text: queries are user input of unbounded length
// and Redis keys should stay small and safe.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}
