package services

import (
	"context"
	"fmt"
	"sync"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
	"ragserver/internal/logger"
)

// IndexGateway owns the vector database connection: it embeds chunk text on
// the way in and query text on the way out. Provider and database errors
// propagate to the caller untouched; there is no retry layer.
type IndexGateway struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore

	// Collection creation is initialize-once per name so concurrent first
	// ingestions cannot race to create the same collection twice.
	mu    sync.Mutex
	ready map[string]bool
}

// NewIndexGateway creates a gateway over the given embedder and store.
func NewIndexGateway(embedder driven.EmbeddingService, store driven.VectorStore) *IndexGateway {
	return &IndexGateway{
		embedder: embedder,
		store:    store,
		ready:    make(map[string]bool),
	}
}

// Upsert embeds the chunks and writes them to the named collection, creating
// it on first write. Returns the number of points written; an empty input is
// a no-op returning 0 with no provider calls.
func (g *IndexGateway) Upsert(ctx context.Context, collection string, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := g.ensureCollection(ctx, collection); err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := g.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]driven.Point, len(chunks))
	for i, c := range chunks {
		points[i] = driven.Point{
			ID:      c.ID,
			Vector:  vectors[i],
			Content: c.Content,
			Source:  c.Source,
		}
	}

	if err := g.store.Upsert(ctx, collection, points); err != nil {
		return 0, fmt.Errorf("upsert points: %w", err)
	}

	logger.Debug("upserted %d points into %q", len(points), collection)
	return len(points), nil
}

// Search embeds the query and returns the k nearest stored chunks from the
// named collection, ordered by decreasing similarity.
func (g *IndexGateway) Search(ctx context.Context, collection, query string, k int) ([]driven.Hit, error) {
	vector, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := g.store.Search(ctx, collection, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("search %q in %q: %d hits", query, collection, len(hits))
	return hits, nil
}

func (g *IndexGateway) ensureCollection(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready[name] {
		return nil
	}
	if err := g.store.EnsureCollection(ctx, name, g.embedder.Dimensions()); err != nil {
		return fmt.Errorf("ensure collection %q: %w", name, err)
	}
	g.ready[name] = true
	return nil
}
