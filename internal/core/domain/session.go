package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session binds a client's later questions to the collection an ingestion
// wrote into. Sessions are immutable after creation.
type Session struct {
	// ID is the opaque session identifier handed to the client.
	ID string

	// Collection is the vector database collection the session queries.
	Collection string

	// CreatedAt is when the ingestion completed.
	CreatedAt time.Time
}

// NewSessionID returns a fresh opaque session identifier. UUIDv7 combines a
// millisecond timestamp with random bits, so collisions are negligible for
// the lifetime of a process.
func NewSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Entropy failure; fall back to the fully random v4.
		return uuid.NewString()
	}
	return id.String()
}
