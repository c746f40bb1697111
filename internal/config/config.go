// Package config loads ragserver configuration from a TOML file with
// environment-variable overrides for credentials and deploy-time settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `toml:"port"`

	// Collection is the vector database collection name. With
	// PerSessionCollections disabled every session shares this one
	// corpus: anything ingested is retrievable by any session.
	Collection string `toml:"collection"`

	// PerSessionCollections isolates each ingestion in its own
	// collection named "<collection>-<sessionID>".
	PerSessionCollections bool `toml:"per_session_collections"`

	// CaptionLang is the preferred-language hint for the first
	// caption-fetch attempt.
	CaptionLang string `toml:"caption_lang"`

	// TopK is the number of chunks retrieved per question.
	TopK int `toml:"top_k"`

	Chunk     ChunkConfig     `toml:"chunk"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Qdrant    QdrantConfig    `toml:"qdrant"`
	Sessions  SessionsConfig  `toml:"sessions"`
}

// ChunkConfig configures document splitting.
type ChunkConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`

	// Dimensions overrides the model's vector size for models the
	// adapter does not know.
	Dimensions int `toml:"dimensions"`

	// APIKey comes from OPENAI_API_KEY, never from the file.
	APIKey string `toml:"-"`
}

// LLMConfig configures the language model provider.
type LLMConfig struct {
	// Provider selects the adapter: "openai" or "anthropic".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`

	// APIKey comes from OPENAI_API_KEY or ANTHROPIC_API_KEY depending on
	// the provider, never from the file.
	APIKey string `toml:"-"`
}

// QdrantConfig contains connection details for the vector database.
type QdrantConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"-"`
}

// SessionsConfig selects the session store backend.
type SessionsConfig struct {
	// Backend is "memory" (default; restart invalidates all sessions) or
	// "sqlite" (durable).
	Backend string `toml:"backend"`

	// Path is the SQLite database path (sqlite backend only).
	Path string `toml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Port:        8080,
		Collection:  "ragserver",
		CaptionLang: "en",
		TopK:        5,
		Chunk: ChunkConfig{
			Size:    800,
			Overlap: 160,
		},
		Embedding: EmbeddingConfig{
			Model: "text-embedding-3-small",
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Qdrant: QdrantConfig{
			URL: "http://localhost:6333",
		},
		Sessions: SessionsConfig{
			Backend: "memory",
		},
	}
}

// Load reads configuration from a TOML file and applies environment
// overrides. A missing file is not an error: defaults are used. An empty
// path tries ~/.ragserver/config.toml.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".ragserver", "config.toml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")

	switch c.LLM.Provider {
	case "anthropic":
		c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if v := os.Getenv("QDRANT_URL"); v != "" {
		c.Qdrant.URL = v
	}
	c.Qdrant.APIKey = os.Getenv("QDRANT_API_KEY")

	if v := os.Getenv("RAGSERVER_CAPTION_LANG"); v != "" {
		c.CaptionLang = v
	}
	if v := os.Getenv("RAGSERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}
