// Package memory provides the in-memory session store. Sessions live only
// for the lifetime of the process: a restart invalidates every issued id.
package memory

import (
	"context"
	"sync"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// Store is a mutex-guarded map of session id to session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// New creates an empty in-memory session store.
func New() *Store {
	return &Store{
		sessions: make(map[string]domain.Session),
	}
}

// Save records a new session.
func (s *Store) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Get returns the session for the given id.
func (s *Store) Get(_ context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
