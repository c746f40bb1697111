// Package sqlite provides a durable session store so issued session ids
// survive process restarts in multi-process deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// Store is a SQLite-backed session store.
type Store struct {
	db   *sql.DB
	path string
}

// New creates (or opens) a session database at path. An empty path defaults
// to ~/.ragserver/sessions.db.
func New(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ragserver", "sessions.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode for concurrent readers during ingest writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Save records a new session.
func (s *Store) Save(ctx context.Context, session domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, collection, created_at) VALUES (?, ?, ?)`,
		session.ID, session.Collection, session.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns the session for the given id.
func (s *Store) Get(ctx context.Context, id string) (domain.Session, error) {
	var (
		session   domain.Session
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, collection, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Collection, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("query session: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		session.CreatedAt = t
	}
	return session, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
