package compact

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/llm"
)

const (
	// DefaultMaxInputTokens is the model input budget the prompt must fit
	// in, system prompt included.
	DefaultMaxInputTokens = 80000

	// KeepRecentTurns messages are always kept verbatim; only what comes
	// before them is ever summarized.
	KeepRecentTurns = 4
)

// Compactor keeps conversation history within the prompt token budget by
// replacing older turns with a compact summary. Caller-owned history is
// never mutated: under budget the same slice comes back, otherwise a new
// one is built.
type Compactor struct {
	llm       llm.LLMClient
	prompt    string
	estimator *TokenEstimator

	maxInputTokens int
	systemTokens   int
}

type Option func(*Compactor)

// WithBudget overrides the input token budget.
func WithBudget(maxInputTokens int) Option {
	return func(c *Compactor) { c.maxInputTokens = maxInputTokens }
}

// WithEstimator injects a token estimator (tests use the character
// heuristic to keep budgets predictable).
func WithEstimator(e *TokenEstimator) Option {
	return func(c *Compactor) { c.estimator = e }
}

func NewCompactor(client llm.LLMClient, summaryPrompt, systemPrompt string, opts ...Option) *Compactor {
	c := &Compactor{
		llm:            client,
		prompt:         summaryPrompt,
		maxInputTokens: DefaultMaxInputTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.estimator == nil {
		c.estimator = NewTokenEstimator()
	}
	c.systemTokens = c.estimator.Count(systemPrompt)
	return c
}

func (c *Compactor) Compact(ctx context.Context, history []model.ConversationMessage) []model.ConversationMessage {
	budget := c.maxInputTokens - c.systemTokens
	if c.estimator.CountMessages(history) <= budget {
		return history
	}
	if len(history) <= KeepRecentTurns {
		// Nothing safe to drop.
		return history
	}

	older := history[:len(history)-KeepRecentTurns]
	recent := history[len(history)-KeepRecentTurns:]

	summary, err := c.summarize(ctx, older)
	if err != nil {
		log.Printf("history summarization failed, sending full history: %v", err)
		return history
	}

	out := make([]model.ConversationMessage, 0, 2+KeepRecentTurns)
	out = append(out,
		model.ConversationMessage{
			Role:    model.RoleUser,
			Content: "Résumé de la conversation précédente :\n" + summary,
		},
		model.ConversationMessage{
			Role:    model.RoleAssistant,
			Content: "Compris, je garde ce contexte en tête pour la suite.",
		},
	)
	out = append(out, recent...)
	return out
}

// summarize condenses the older turns into a bullet summary that keeps
// named entities (article numbers, document types, dates) and open
// questions.
func (c *Compactor) summarize(ctx context.Context, older []model.ConversationMessage) (string, error) {
	var b strings.Builder
	for _, m := range older {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}

	out, err := c.llm.Generate(ctx, fmt.Sprintf(c.prompt, b.String()))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty summary")
	}
	return out, nil
}
