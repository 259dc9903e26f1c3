package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guichet-ai/guichet/internal/config"
	"github.com/guichet-ai/guichet/internal/core/model"
)

func testPrompts() config.PipelinePrompts {
	return config.PipelinePrompts{
		Translation:   "translate from %s: %s",
		Reformulation: "history:\n%s\nquestion: %s",
		Expansion:     "expand: %s",
	}
}

func TestTranslateToPivotNoOpForFrench(t *testing.T) {
	mock := &MockLLMClient{Response: "should never be used"}
	n := NewNormalizer(mock, testPrompts())

	out := n.TranslateToPivot(context.Background(), "Comment faire ?", French)

	assert.Equal(t, "Comment faire ?", out)
	assert.Empty(t, mock.Prompts)
}

func TestTranslateToPivot(t *testing.T) {
	mock := &MockLLMClient{Response: "Comment renouveler mon titre de séjour ?"}
	n := NewNormalizer(mock, testPrompts())

	out := n.TranslateToPivot(context.Background(), "How do I renew my titre de séjour?", English)

	assert.Equal(t, "Comment renouveler mon titre de séjour ?", out)
}

func TestTranslateToPivotFailOpen(t *testing.T) {
	n := NewNormalizer(&MockLLMClient{Err: errors.New("provider down")}, testPrompts())
	out := n.TranslateToPivot(context.Background(), "How do I renew it?", English)
	assert.Equal(t, "How do I renew it?", out)

	n = NewNormalizer(&MockLLMClient{Response: "   "}, testPrompts())
	out = n.TranslateToPivot(context.Background(), "How do I renew it?", English)
	assert.Equal(t, "How do I renew it?", out)
}

func TestReformulateFirstTurnUnchanged(t *testing.T) {
	mock := &MockLLMClient{Response: "rewritten"}
	n := NewNormalizer(mock, testPrompts())

	out := n.Reformulate(context.Background(), nil, "Comment renouveler mon titre de séjour ?")

	assert.Equal(t, "Comment renouveler mon titre de séjour ?", out)
	assert.Empty(t, mock.Prompts)
}

func TestReformulateFollowUp(t *testing.T) {
	history := []model.ConversationMessage{
		{Role: model.RoleUser, Content: "Comment renouveler mon titre de séjour ?"},
		{Role: model.RoleAssistant, Content: "Vous devez déposer votre demande en préfecture."},
	}
	mock := &MockLLMClient{Response: "Quels documents faut-il pour renouveler un titre de séjour ?"}
	n := NewNormalizer(mock, testPrompts())

	out := n.Reformulate(context.Background(), history, "Quels documents faut-il ?")

	assert.Equal(t, "Quels documents faut-il pour renouveler un titre de séjour ?", out)
	assert.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "déposer votre demande")
}

func TestReformulateDiscardsTruncatedOutput(t *testing.T) {
	history := []model.ConversationMessage{
		{Role: model.RoleUser, Content: "première question"},
	}
	// Output shorter than half the original: discard it.
	mock := &MockLLMClient{Response: "Quels ?"}
	n := NewNormalizer(mock, testPrompts())

	original := "Quels documents faut-il pour le renouvellement ?"
	out := n.Reformulate(context.Background(), history, original)

	assert.Equal(t, original, out)
}

func TestExpand(t *testing.T) {
	mock := &MockLLMClient{Response: `["renouvellement de titre de séjour", "carte de séjour pluriannuelle"]`}
	n := NewNormalizer(mock, testPrompts())

	out := n.Expand(context.Background(), "renouveler titre de séjour")

	assert.Equal(t, []string{"renouvellement de titre de séjour", "carte de séjour pluriannuelle"}, out)
}

func TestExpandStringLiteralFallback(t *testing.T) {
	mock := &MockLLMClient{Response: `Voici des variantes: "demande de naturalisation" et "acquisition de la nationalité française"`}
	n := NewNormalizer(mock, testPrompts())

	out := n.Expand(context.Background(), "devenir français")

	assert.Equal(t, []string{"demande de naturalisation", "acquisition de la nationalité française"}, out)
}

func TestExpandNeverFails(t *testing.T) {
	n := NewNormalizer(&MockLLMClient{Err: errors.New("timeout")}, testPrompts())
	assert.Nil(t, n.Expand(context.Background(), "carte grise"))

	n = NewNormalizer(&MockLLMClient{Response: "no usable output here"}, testPrompts())
	assert.Nil(t, n.Expand(context.Background(), "carte grise"))
}
