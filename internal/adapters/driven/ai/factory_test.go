package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragserver/internal/config"
	"ragserver/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("missing key is fatal", func(t *testing.T) {
		_, err := CreateEmbeddingService(config.EmbeddingConfig{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProviderMisconfigured)
	})

	t.Run("with key", func(t *testing.T) {
		svc, err := CreateEmbeddingService(config.EmbeddingConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "text-embedding-3-small", svc.ModelName())
		assert.Equal(t, 1536, svc.Dimensions())
	})
}

func TestCreateLLMService(t *testing.T) {
	t.Run("missing key yields nil service", func(t *testing.T) {
		svc, err := CreateLLMService(config.LLMConfig{Provider: "openai"})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := CreateLLMService(config.LLMConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", svc.ModelName())
	})

	t.Run("empty provider defaults to openai", func(t *testing.T) {
		svc, err := CreateLLMService(config.LLMConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", svc.ModelName())
	})

	t.Run("anthropic", func(t *testing.T) {
		svc, err := CreateLLMService(config.LLMConfig{Provider: "anthropic", APIKey: "sk-ant"})
		require.NoError(t, err)
		assert.Equal(t, "claude-3-5-haiku-latest", svc.ModelName())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := CreateLLMService(config.LLMConfig{Provider: "cohere", APIKey: "key"})
		require.Error(t, err)
	})
}
