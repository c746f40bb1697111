// Package openai provides an embedding service adapter using the OpenAI API.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"ragserver/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Default configuration values.
const (
	DefaultModel     = "text-embedding-3-small"
	DefaultBatchSize = 100

	// DefaultRequestsPerSecond caps embedding API calls so large
	// ingestions stay under provider rate limits.
	DefaultRequestsPerSecond = 5
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL for OpenAI-compatible servers
	// (Ollama, LM Studio, Azure).
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// BatchSize is the maximum inputs per request (default: 100).
	BatchSize int

	// RequestsPerSecond limits API call rate (default: 5).
	RequestsPerSecond float64

	// Dimensions overrides the dimension for models not in the built-in
	// table (required for non-OpenAI models behind a compatible API).
	Dimensions int
}

// Service generates embeddings using the OpenAI API.
type Service struct {
	client    *openai.Client
	model     string
	dims      int
	batchSize int
	limiter   *rate.Limiter
}

// New creates a new OpenAI embedding service.
func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = modelDimensions[cfg.Model]
	}
	if dims == 0 {
		return nil, fmt.Errorf("openai: unknown dimensions for model %q", cfg.Model)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		dims:      dims,
		batchSize: cfg.BatchSize,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts, splitting the input
// into rate-limited API batches.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(s.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), end-start)
		}

		for _, d := range resp.Data {
			v := make([]float32, len(d.Embedding))
			for i := range d.Embedding {
				v[i] = float32(d.Embedding[i])
			}
			vectors = append(vectors, v)
		}
	}

	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *Service) Dimensions() int {
	return s.dims
}

// ModelName returns the name of the embedding model being used.
func (s *Service) ModelName() string {
	return s.model
}
