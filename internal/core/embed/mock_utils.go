package embed

import (
	"context"
)

type MockEmbedderClient struct {
	// FailuresBeforeSuccess makes the first N calls return Err; a
	// negative value fails every call.
	FailuresBeforeSuccess int
	Err                   error
	Dimensions            int

	Calls   int
	Batches [][]string
}

func (m *MockEmbedderClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.Calls++
	m.Batches = append(m.Batches, texts)
	if m.Err != nil && (m.FailuresBeforeSuccess < 0 || m.Calls <= m.FailuresBeforeSuccess) {
		return nil, m.Err
	}
	dims := m.Dimensions
	if dims == 0 {
		dims = 4
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, dims)
	}
	return out, nil
}

func (m *MockEmbedderClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
