package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/guichet-ai/guichet/internal/core/model"
)

// graphTimeout bounds every citation graph call; expansion is optional
// context and must never hold a request hostage.
const graphTimeout = 5 * time.Second

// CitationGraph reads the Legifrance citation graph. The graph is owned
// by the ingestion jobs; this client is strictly read-only.
type CitationGraph struct {
	driver neo4j.DriverWithContext
}

func NewCitationGraph(uri, username, password string) (*CitationGraph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Connected to citation graph")
	return &CitationGraph{driver: driver}, nil
}

func (g *CitationGraph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func (g *CitationGraph) FetchArticles(ctx context.Context, numbers []string) ([]model.DocumentChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, graphTimeout)
	defer cancel()
	result, err := neo4j.ExecuteQuery(ctx, g.driver, fetchArticlesCypher,
		map[string]interface{}{"numbers": numbers}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	var out []model.DocumentChunk
	for _, record := range result.Records {
		number, _ := record.Get("number")
		content, _ := record.Get("content")
		code, _ := record.Get("code")
		url, _ := record.Get("source_url")

		chunk := model.DocumentChunk{
			Source:   model.SourceLegifrance,
			DocType:  model.DocTypeArticle,
			Language: "fr",
		}
		if s, ok := number.(string); ok {
			chunk.ArticleNumber = s
			chunk.ID = s
		}
		if s, ok := content.(string); ok {
			chunk.Content = s
		}
		if s, ok := code.(string); ok {
			chunk.CodeName = s
		}
		if s, ok := url.(string); ok {
			chunk.SourceURL = s
		}
		out = append(out, chunk)
	}
	return out, nil
}

func (g *CitationGraph) ReferencedArticleNumbers(ctx context.Context, articleNumber string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, graphTimeout)
	defer cancel()
	result, err := neo4j.ExecuteQuery(ctx, g.driver, referencedArticlesCypher,
		map[string]interface{}{"number": articleNumber, "limit": limit}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to traverse references: %w", err)
	}

	var out []string
	for _, record := range result.Records {
		if number, ok := record.Get("number"); ok {
			if s, ok := number.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
