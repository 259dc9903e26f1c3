package lang

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/guichet-ai/guichet/internal/config"
	"github.com/guichet-ai/guichet/internal/core/common"
	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/llm"
)

const (
	// reformulationWindow is how many trailing history messages are shown
	// to the model when rewriting a follow-up into a standalone query.
	reformulationWindow = 6

	// reformulationMinRatio guards against truncation bugs in the
	// collaborator: outputs shorter than half the original are discarded.
	reformulationMinRatio = 0.5

	// maxExpansions bounds the alternative phrasings kept per query.
	maxExpansions = 3
)

// Normalizer turns a raw multilingual user query into a standalone
// pivot-language query plus official-terminology expansions. Every
// collaborator call here fails open: the worst outcome of a broken LLM
// response is the original text.
type Normalizer struct {
	llm     llm.LLMClient
	prompts config.PipelinePrompts
}

func NewNormalizer(client llm.LLMClient, prompts config.PipelinePrompts) *Normalizer {
	return &Normalizer{llm: client, prompts: prompts}
}

// TranslateToPivot translates the query into French. No-op when the
// detected language already is the pivot; on any collaborator failure the
// original text is returned unchanged.
func (n *Normalizer) TranslateToPivot(ctx context.Context, text, detected string) string {
	if detected == Pivot {
		return text
	}
	prompt := fmt.Sprintf(n.prompts.Translation, languageName(detected), text)
	out, err := n.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("translation failed, keeping original query: %v", err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}

// Reformulate rewrites a follow-up question into a standalone query using
// the recent conversation. The first user turn passes through unchanged.
func (n *Normalizer) Reformulate(ctx context.Context, history []model.ConversationMessage, query string) string {
	if len(history) == 0 {
		return query
	}

	window := history
	if len(window) > reformulationWindow {
		window = window[len(window)-reformulationWindow:]
	}
	var b strings.Builder
	for _, msg := range window {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}

	prompt := fmt.Sprintf(n.prompts.Reformulation, b.String(), query)
	out, err := n.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("reformulation failed, keeping original query: %v", err)
		return query
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return query
	}
	if float64(len([]rune(out))) < reformulationMinRatio*float64(len([]rune(query))) {
		return query
	}
	return out
}

// Expand asks for 2-3 alternative official-terminology phrasings of the
// pivot query. Returns nil on any failure; expansion is best-effort.
func (n *Normalizer) Expand(ctx context.Context, query string) []string {
	out, err := n.llm.Generate(ctx, fmt.Sprintf(n.prompts.Expansion, query))
	if err != nil {
		log.Printf("query expansion failed, continuing without: %v", err)
		return nil
	}
	phrases, err := common.ParseJSONArray(out)
	if err != nil {
		log.Printf("query expansion unparseable, continuing without: %v", err)
		return nil
	}
	if len(phrases) > maxExpansions {
		phrases = phrases[:maxExpansions]
	}
	return phrases
}

func languageName(tag string) string {
	switch tag {
	case English:
		return "English"
	case Korean:
		return "Korean"
	case French:
		return "French"
	}
	return tag
}
