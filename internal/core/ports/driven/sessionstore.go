package driven

import (
	"context"

	"ragserver/internal/core/domain"
)

// SessionStore records the binding between a session id and the collection
// it queries. No update or delete is exposed: sessions are write-once.
//
// The default backing is process memory, so a restart invalidates all
// sessions; a durable implementation may be swapped in for multi-process
// deployments.
type SessionStore interface {
	// Save records a new session.
	Save(ctx context.Context, session domain.Session) error

	// Get returns the session for the given id, or
	// domain.ErrSessionNotFound when the id is unknown.
	Get(ctx context.Context, id string) (domain.Session, error)
}
