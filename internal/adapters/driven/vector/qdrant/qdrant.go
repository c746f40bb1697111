// Package qdrant provides a VectorStore adapter backed by a Qdrant server's
// REST API. Collections use cosine distance.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ragserver/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultTimeout bounds each request to the Qdrant server.
const DefaultTimeout = 30 * time.Second

// Config holds connection details for the Qdrant server.
type Config struct {
	// URL is the server base URL, e.g. http://localhost:6333 (required).
	URL string

	// APIKey is sent in the api-key header when set.
	APIKey string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a minimal REST client to Qdrant.
type Store struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a new Qdrant store.
func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the named collection with the given vector size
// if it does not already exist.
func (s *Store) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("qdrant: invalid dimensions %d", dimensions)
	}

	status, err := s.do(ctx, http.MethodGet, "/collections/"+name, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	status, err = s.do(ctx, http.MethodPut, "/collections/"+name, body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant: create collection %q failed with status %d", name, status)
	}
	return nil
}

// Upsert writes the points into the named collection and waits for the
// write to be applied.
func (s *Store) Upsert(ctx context.Context, collection string, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}

	apiPoints := make([]map[string]any, len(points))
	for i, p := range points {
		apiPoints[i] = map[string]any{
			"id":     p.ID,
			"vector": p.Vector,
			"payload": map[string]any{
				"content": p.Content,
				"source":  p.Source,
			},
		}
	}

	body := map[string]any{"points": apiPoints}
	status, err := s.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant: upsert into %q failed with status %d", collection, status)
	}
	return nil
}

// Search returns the k nearest points to the query vector, with payloads,
// ordered by decreasing similarity.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, k int) ([]driven.Hit, error) {
	if k <= 0 {
		k = 5
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	status, err := s.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body, &resp)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("qdrant: search in %q failed with status %d", collection, status)
	}

	hits := make([]driven.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := driven.Hit{Score: r.Score}
		if v, ok := r.Payload["content"].(string); ok {
			hit.Content = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			hit.Source = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// do sends one JSON request and decodes the response into out when non-nil.
// The HTTP status is returned so callers can distinguish "not found" from
// transport failures.
func (s *Store) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("qdrant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
