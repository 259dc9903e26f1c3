package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/guichet-ai/guichet/internal/config"
)

// NewClient builds the chat and embedding clients for the configured
// provider. A nil EmbedderClient means the provider cannot embed and the
// caller must refuse to start retrieval with it.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL, cfg.EmbeddingDimensions)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	case "claude":
		// No embedding endpoint; pair it with another embedder via config.
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		// Ollama speaks the OpenAI-compatible API under /v1.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client config
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL, cfg.EmbeddingDimensions)
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// NewReranker returns the rerank client, or nil when no rerank endpoint is
// configured. A nil reranker puts the pipeline in degraded passthrough
// mode rather than failing.
func NewReranker(cfg config.RerankConfig) RerankerClient {
	if cfg.BaseURL == "" {
		return nil
	}
	return NewHTTPReranker(cfg.BaseURL, cfg.APIKey, cfg.Model)
}
