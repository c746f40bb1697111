package driven

import "context"

// VectorStore is the connection to the external vector database. It is the
// durable copy of every chunk: the service never caches vectors itself.
type VectorStore interface {
	// EnsureCollection creates the named collection with the given vector
	// size if it does not already exist. Idempotent.
	EnsureCollection(ctx context.Context, name string, dimensions int) error

	// Upsert writes the points into the named collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k nearest stored points to the query vector,
	// ordered by decreasing similarity.
	Search(ctx context.Context, collection string, vector []float32, k int) ([]Hit, error)
}

// Point is one embedded chunk headed for the vector database.
type Point struct {
	// ID is the point identifier (a UUID string).
	ID string

	// Vector is the embedding.
	Vector []float32

	// Content is the chunk text, stored alongside the vector.
	Content string

	// Source is the chunk's provenance label.
	Source string
}

// Hit is a similarity search result with its stored payload.
type Hit struct {
	// Content is the original chunk text.
	Content string

	// Source is the chunk's provenance label.
	Source string

	// Score is the similarity score (higher is better).
	Score float64
}
