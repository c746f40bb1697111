package domain

import (
	"errors"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates an uploaded file could not be read.
	// Fatal for the ingest call, unlike per-source extraction failures.
	ErrSourceUnavailable = errors.New("source file unavailable")

	// ErrSessionNotFound indicates an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrProviderMisconfigured indicates a missing provider credential.
	// Checked before any network call is made.
	ErrProviderMisconfigured = errors.New("language model provider not configured")
)

// NoContentError reports that no input in an ingestion batch produced any
// extractable text. Notes collects the per-source diagnostics gathered
// during normalisation so the caller can self-correct.
type NoContentError struct {
	Notes []string
}

func (e *NoContentError) Error() string {
	msg := "no extractable content in any provided source"
	if len(e.Notes) > 0 {
		msg += ": " + strings.Join(e.Notes, "; ")
	}
	return msg
}
