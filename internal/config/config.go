package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PipelinePrompts are fmt.Sprintf format strings for the narrow LLM tasks
// the pipeline delegates to the instructable model.
type PipelinePrompts struct {
	Translation   string `toml:"translation"`   // args: source language, text
	Reformulation string `toml:"reformulation"` // args: conversation window, new question
	Expansion     string `toml:"expansion"`     // args: pivot query
	Summary       string `toml:"summary"`       // args: older conversation turns
	Verification  string `toml:"verification"`  // args: evidence, answer
}

type LLMConfig struct {
	Provider            string `toml:"provider"`
	Model               string `toml:"model"`
	EmbeddingModel      string `toml:"embedding_model"`
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	EmbeddingDimensions int    `toml:"embedding_dimensions"`
}

type RerankConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type PostgresConfig struct {
	URL string `toml:"url"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type PipelineConfig struct {
	// MaxResults is the default result count when a request does not ask
	// for one.
	MaxResults int `toml:"max_results"`
	// SystemPrompt is the generation collaborator's system prompt; the
	// compactor subtracts its token estimate from the input budget.
	SystemPrompt string `toml:"system_prompt"`
}

type Config struct {
	LLM      LLMConfig       `toml:"llm"`
	Rerank   RerankConfig    `toml:"rerank"`
	Postgres PostgresConfig  `toml:"postgres"`
	Neo4j    Neo4jConfig     `toml:"neo4j"`
	Redis    RedisConfig     `toml:"redis"`
	Pipeline PipelineConfig  `toml:"pipeline"`
	Prompts  PipelinePrompts `toml:"prompts"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyEnv()

	if cfg.Pipeline.MaxResults <= 0 {
		cfg.Pipeline.MaxResults = 5
	}
	if cfg.LLM.EmbeddingDimensions <= 0 {
		cfg.LLM.EmbeddingDimensions = 1024
	}

	return &cfg, nil
}

// applyEnv lets deployment environments override secrets and endpoints
// without editing the TOML.
func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")
	set(&c.Rerank.BaseURL, "RERANK_BASE_URL")
	set(&c.Rerank.APIKey, "RERANK_API_KEY")
	set(&c.Rerank.Model, "RERANK_MODEL")
	set(&c.Postgres.URL, "DATABASE_URL")
	set(&c.Neo4j.URI, "NEO4J_URI")
	set(&c.Neo4j.User, "NEO4J_USER")
	set(&c.Neo4j.Password, "NEO4J_PASSWORD")
	set(&c.Redis.Addr, "REDIS_ADDR")
	set(&c.Redis.Password, "REDIS_PASSWORD")
}
