package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guichet-ai/guichet/internal/core/model"
)

const testPrompt = "evidence:\n%s\nanswer:\n%s"

func TestVerifyEmptyAnswerShortCircuits(t *testing.T) {
	mock := &MockLLMClient{Response: "should not be called"}
	v := New(mock, testPrompt)

	result := v.Verify(context.Background(), "   \n", "des preuves")

	assert.Equal(t, model.StatusVerified, result.Status)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Empty(t, result.Flagged)
	assert.Empty(t, mock.Prompts)
}

func TestVerifyClean(t *testing.T) {
	mock := &MockLLMClient{Response: `{"flagged": [], "confidence": 0.92}`}
	v := New(mock, testPrompt)

	result := v.Verify(context.Background(), "Vous devez déposer la demande en préfecture.", "[1] déposer la demande en préfecture")

	assert.Equal(t, model.StatusVerified, result.Status)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Empty(t, result.Flagged)
}

func TestVerifyHighSeverityFlagIsError(t *testing.T) {
	mock := &MockLLMClient{Response: `{
		"flagged": [
			{"claim": "l'article L999-99 prévoit un délai de 2 mois", "reason": "article absent des sources", "severity": "high"}
		],
		"confidence": 0.35
	}`}
	v := New(mock, testPrompt)

	result := v.Verify(context.Background(),
		"Selon l'article L999-99, le délai est de 2 mois.",
		"[1] L'article L313-11 encadre la délivrance du titre.")

	assert.Equal(t, model.StatusError, result.Status)
	assert.Len(t, result.Flagged, 1)
	assert.Contains(t, result.Flagged[0].Claim, "L999-99")
	assert.Equal(t, model.SeverityHigh, result.Flagged[0].Severity)
}

func TestVerifyMediumOnlyIsWarning(t *testing.T) {
	mock := &MockLLMClient{Response: `{
		"flagged": [
			{"claim": "le traitement prend environ trois semaines", "reason": "durée non sourcée", "severity": "medium"}
		],
		"confidence": 0.6
	}`}
	v := New(mock, testPrompt)

	result := v.Verify(context.Background(), "Le traitement prend environ trois semaines.", "[1] la préfecture instruit la demande")

	assert.Equal(t, model.StatusWarning, result.Status)
}

func TestVerifyFailOpen(t *testing.T) {
	v := New(&MockLLMClient{Err: errors.New("timeout")}, testPrompt)
	result := v.Verify(context.Background(), "une réponse", "des preuves")
	assert.Equal(t, model.StatusVerified, result.Status)
	assert.Zero(t, result.Confidence)

	v = New(&MockLLMClient{Response: "I think it's fine overall."}, testPrompt)
	result = v.Verify(context.Background(), "une réponse", "des preuves")
	assert.Equal(t, model.StatusVerified, result.Status)
	assert.Zero(t, result.Confidence)
}

func TestVerifyBracketExtraction(t *testing.T) {
	mock := &MockLLMClient{Response: "Voici mon analyse:\n```json\n{\"flagged\": [], \"confidence\": 0.8}\n```"}
	v := New(mock, testPrompt)

	result := v.Verify(context.Background(), "une réponse", "des preuves")

	assert.Equal(t, model.StatusVerified, result.Status)
	assert.Equal(t, 0.8, result.Confidence)
}
