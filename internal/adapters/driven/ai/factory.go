// Package ai provides factory functions for creating provider adapters from
// configuration.
package ai

import (
	"fmt"

	openaiembed "ragserver/internal/adapters/driven/embedding/openai"
	anthropicllm "ragserver/internal/adapters/driven/llm/anthropic"
	openaillm "ragserver/internal/adapters/driven/llm/openai"
	"ragserver/internal/config"
	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
)

// CreateEmbeddingService builds the embedding adapter. Embeddings are
// required for both ingestion and retrieval, so a missing credential is
// fatal at startup.
func CreateEmbeddingService(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", domain.ErrProviderMisconfigured)
	}

	return openaiembed.New(openaiembed.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
	})
}

// CreateLLMService builds the configured LLM adapter. Returns (nil, nil)
// when no credential is present: the server still ingests, and asks fail
// with domain.ErrProviderMisconfigured.
func CreateLLMService(cfg config.LLMConfig) (driven.LLMService, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "", "openai":
		return openaillm.New(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "anthropic":
		return anthropicllm.New(anthropicllm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
