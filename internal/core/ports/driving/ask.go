package driving

import (
	"context"

	"ragserver/internal/core/domain"
)

// AnswerService answers natural-language questions against a previously
// ingested corpus.
type AnswerService interface {
	// Ask retrieves the chunks most relevant to query from the session's
	// collection and returns a grounded answer with citations. Unknown
	// session ids fail with domain.ErrSessionNotFound before any provider
	// call is made.
	Ask(ctx context.Context, sessionID, query string) (domain.Answer, error)
}
