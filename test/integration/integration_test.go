//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guichet-ai/guichet/internal/config"
	"github.com/guichet-ai/guichet/internal/core"
	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/server"
)

// TestFullFlow runs a real query end to end against live backends:
// Postgres with the corpus loaded, plus whatever LLM provider the
// environment points at. Neo4j, Redis and the reranker are exercised
// when configured and degrade silently otherwise.
func TestFullFlow(t *testing.T) {
	_ = godotenv.Load("../../.env")

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
	if os.Getenv("LLM_API_KEY") == "" && os.Getenv("LLM_BASE_URL") == "" {
		t.Skip("Skipping integration test: no LLM configured")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "../../config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	ctx := context.Background()
	srv, err := server.NewServer(ctx, cfg)
	require.NoError(t, err)
	defer srv.Close(ctx)

	resp, err := srv.Pipeline.Retrieve(ctx, core.Request{
		Query: "How do I renew my titre de séjour?",
		Limit: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "en", resp.QueryInfo.DetectedLanguage)
	assert.NotEmpty(t, resp.QueryInfo.PivotQuery)
	assert.LessOrEqual(t, resp.Total, 5+3) // limit plus cross-reference cap

	t.Logf("pivot query: %s", resp.QueryInfo.PivotQuery)
	for i, r := range resp.Results {
		t.Logf("[%d] %.3f %s %s", i+1, r.Score, r.Source, r.ID)
	}

	if resp.Quality.Pass {
		res := srv.Pipeline.Verify(ctx, "Le renouvellement se demande en ligne sur l'ANEF [1].", resp.Results)
		assert.Contains(t, []string{model.StatusVerified, model.StatusWarning, model.StatusError}, res.Status)
	}
}
