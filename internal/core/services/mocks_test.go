package services

import (
	"context"
	"fmt"

	"ragserver/internal/core/ports/driven"
)

// --- Mock implementations shared across the service tests ---

// mockEmbedder implements driven.EmbeddingService. Vectors are deterministic
// placeholders; calls are counted so tests can assert no provider traffic.
type mockEmbedder struct {
	dims     int
	embedErr error
	calls    int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, m.Dimensions())
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims == 0 {
		return 4
	}
	return m.dims
}

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

// mockVectorStore implements driven.VectorStore, recording writes in memory.
type mockVectorStore struct {
	ensureErr error
	upsertErr error
	searchErr error

	ensured []string
	points  map[string][]driven.Point
	hits    []driven.Hit
}

func (m *mockVectorStore) EnsureCollection(_ context.Context, name string, _ int) error {
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.ensured = append(m.ensured, name)
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, collection string, points []driven.Point) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.points == nil {
		m.points = make(map[string][]driven.Point)
	}
	m.points[collection] = append(m.points[collection], points...)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ string, _ []float32, k int) ([]driven.Hit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

// mockLLM implements driven.LLMService, recording the last conversation.
type mockLLM struct {
	reply    string
	chatErr  error
	calls    int
	messages []driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

// mockPDFExtractor implements driven.PDFExtractor.
type mockPDFExtractor struct {
	text string
	err  error
}

func (m *mockPDFExtractor) Extract(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}

// mockTranscripts implements driven.TranscriptService. Responses are keyed by
// the requested language so tests can drive the two-pass fetch.
type mockTranscripts struct {
	byLang map[string]string
	langs  []string
}

func (m *mockTranscripts) Fetch(_ context.Context, _, lang string) (string, error) {
	m.langs = append(m.langs, lang)
	text, ok := m.byLang[lang]
	if !ok {
		return "", fmt.Errorf("no captions for lang %q", lang)
	}
	return text, nil
}
