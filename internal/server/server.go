package server

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/guichet-ai/guichet/internal/cache"
	"github.com/guichet-ai/guichet/internal/config"
	"github.com/guichet-ai/guichet/internal/core"
	"github.com/guichet-ai/guichet/internal/core/compact"
	"github.com/guichet-ai/guichet/internal/core/crossref"
	"github.com/guichet-ai/guichet/internal/core/embed"
	"github.com/guichet-ai/guichet/internal/core/lang"
	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/core/rerank"
	"github.com/guichet-ai/guichet/internal/core/retrieval"
	"github.com/guichet-ai/guichet/internal/core/verify"
	"github.com/guichet-ai/guichet/internal/llm"
	"github.com/guichet-ai/guichet/internal/store"
)

type Server struct {
	Pipeline *core.Pipeline

	cfg       *config.Config
	documents *store.PostgresStore
	citations *store.CitationGraph
}

// NewServer wires the full pipeline from configuration. Postgres is the
// one hard requirement; Neo4j, Redis and the reranker are optional and
// their absence puts the corresponding stage in degraded mode.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	documents, err := store.NewPostgresStore(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}

	var citations *store.CitationGraph
	if cfg.Neo4j.URI != "" {
		citations, err = store.NewCitationGraph(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
		if err != nil {
			log.Printf("citation graph unavailable, cross-reference fallback disabled: %v", err)
			citations = nil
		}
	}

	llmClient, embedderClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		documents.Close()
		return nil, err
	}

	var embedOpts []embed.Option
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		embedOpts = append(embedOpts, embed.WithCache(cache.NewEmbeddingCache(rdb)))
	}

	pipeline := core.NewPipeline(
		lang.NewNormalizer(llmClient, cfg.Prompts),
		embed.New(embedderClient, embedOpts...),
		retrieval.New(documents),
		rerank.New(llm.NewReranker(cfg.Rerank)),
		newExpander(citations, documents),
		compact.NewCompactor(llmClient, cfg.Prompts.Summary, cfg.Pipeline.SystemPrompt),
		verify.New(llmClient, cfg.Prompts.Verification),
	)

	return &Server{
		Pipeline:  pipeline,
		cfg:       cfg,
		documents: documents,
		citations: citations,
	}, nil
}

// newExpander keeps the typed-nil pitfall out of NewServer: a nil
// *CitationGraph must become a nil interface, so that the expander falls
// back to the document store for reference fetches.
func newExpander(citations *store.CitationGraph, documents *store.PostgresStore) *crossref.Expander {
	if citations == nil {
		return crossref.New(nil, documents)
	}
	return crossref.New(citations, documents)
}

func (s *Server) Close(ctx context.Context) {
	s.documents.Close()
	if s.citations != nil {
		if err := s.citations.Close(ctx); err != nil {
			log.Printf("closing citation graph: %v", err)
		}
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(requestID())

	r.POST("/ask", s.Ask)
	r.POST("/verify", s.Verify)
	r.GET("/health", s.Health)

	return r
}

// requestID tags every request so pipeline log lines can be correlated
// with the response the caller saw.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

type AskRequest struct {
	Query   string `json:"query"`
	History []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"history"`
	Limit   int    `json:"limit"`
	Source  string `json:"source"`
	DocType string `json:"doc_type"`
}

func (s *Server) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Pipeline.MaxResults
	}

	history := make([]model.ConversationMessage, 0, len(req.History))
	for _, msg := range req.History {
		history = append(history, model.ConversationMessage{Role: msg.Role, Content: msg.Content})
	}

	resp, err := s.Pipeline.Retrieve(c.Request.Context(), core.Request{
		Query:   req.Query,
		History: history,
		Limit:   limit,
		Source:  req.Source,
		DocType: req.DocType,
	})
	if err != nil {
		log.Printf("retrieval failed [%s]: %v", c.Writer.Header().Get("X-Request-ID"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "retrieval failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type VerifyRequest struct {
	Answer  string                   `json:"answer"`
	Results []model.SearchResultItem `json:"results"`
}

func (s *Server) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res := s.Pipeline.Verify(c.Request.Context(), req.Answer, req.Results)
	c.JSON(http.StatusOK, res)
}

func (s *Server) Health(c *gin.Context) {
	if err := s.documents.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
