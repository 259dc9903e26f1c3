package lang

import (
	"context"
)

type MockLLMClient struct {
	Response string
	Err      error

	// Prompts records what the normalizer sent, in call order.
	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
