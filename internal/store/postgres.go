package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/guichet-ai/guichet/internal/core/model"
)

// queryTimeout bounds every store query; a stuck database must fail the
// request, not hang it.
const queryTimeout = 5 * time.Second

// PostgresStore is the pgvector-backed document store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}

	log.Println("Connected to Postgres")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) HybridSearch(ctx context.Context, p HybridSearchParams) ([]HybridRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, hybridSearchQuery,
		p.QueryText,
		pgvector.NewVector(p.Embedding),
		p.MatchCount,
		p.RRFK,
		nullable(p.Filters.Source),
		nullable(p.Filters.DocType),
		p.Filters.Language,
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid_search failed: %w", err)
	}
	defer rows.Close()

	var out []HybridRow
	for rows.Next() {
		var (
			r        HybridRow
			article  *string
			code     *string
			url      *string
			metadata []byte
			semRank  *int
			kwRank   *int
		)
		if err := rows.Scan(&r.ID, &r.Content, &r.Source, &r.DocType,
			&article, &code, &url, &metadata, &semRank, &kwRank, &r.Score); err != nil {
			return nil, fmt.Errorf("hybrid_search scan failed: %w", err)
		}
		r.ArticleNumber = deref(article)
		r.CodeName = deref(code)
		r.SourceURL = deref(url)
		r.Metadata = decodeMetadata(metadata)
		if semRank != nil {
			r.SemanticRank = *semRank
		}
		if kwRank != nil {
			r.KeywordRank = *kwRank
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) VectorSearch(ctx context.Context, p VectorSearchParams) ([]VectorRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, vectorSearchQuery,
		pgvector.NewVector(p.Embedding),
		p.MatchCount,
		nullable(p.Filters.Source),
		nullable(p.Filters.DocType),
		p.Filters.Language,
	)
	if err != nil {
		return nil, fmt.Errorf("vector_search failed: %w", err)
	}
	defer rows.Close()

	var out []VectorRow
	for rows.Next() {
		var (
			r        VectorRow
			article  *string
			code     *string
			url      *string
			metadata []byte
		)
		if err := rows.Scan(&r.ID, &r.Content, &r.Source, &r.DocType,
			&article, &code, &url, &metadata, &r.Score); err != nil {
			return nil, fmt.Errorf("vector_search scan failed: %w", err)
		}
		r.ArticleNumber = deref(article)
		r.CodeName = deref(code)
		r.SourceURL = deref(url)
		r.Metadata = decodeMetadata(metadata)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FetchByArticleNumbers(ctx context.Context, numbers []string) ([]model.DocumentChunk, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, fetchByArticleNumbersQuery, numbers)
	if err != nil {
		return nil, fmt.Errorf("chunk lookup failed: %w", err)
	}
	defer rows.Close()

	var out []model.DocumentChunk
	for rows.Next() {
		var (
			c        model.DocumentChunk
			article  *string
			code     *string
			url      *string
			metadata []byte
		)
		if err := rows.Scan(&c.ID, &c.Content, &c.Source, &c.DocType,
			&article, &code, &url, &metadata, &c.Language); err != nil {
			return nil, fmt.Errorf("chunk lookup scan failed: %w", err)
		}
		c.ArticleNumber = deref(article)
		c.CodeName = deref(code)
		c.SourceURL = deref(url)
		c.Metadata = decodeMetadata(metadata)
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decodeMetadata(raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Printf("Warning: undecodable chunk metadata: %v", err)
		return nil
	}
	return m
}
