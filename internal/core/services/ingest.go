package services

import (
	"context"
	"fmt"
	"time"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
	"ragserver/internal/core/ports/driving"
	"ragserver/internal/logger"
	"ragserver/internal/splitter"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates one ingestion: normalise the inputs, split the
// usable documents into chunks, index them and bind a fresh session to the
// collection they landed in.
type IngestService struct {
	normalizer *NormalizerService
	splitter   *splitter.Splitter
	index      *IndexGateway
	sessions   driven.SessionStore

	collection string
	perSession bool
}

// NewIngestService creates an ingest service writing into collection. When
// perSession is set, each ingestion gets its own collection named
// "<collection>-<sessionID>"; otherwise all sessions share one corpus.
func NewIngestService(
	normalizer *NormalizerService,
	split *splitter.Splitter,
	index *IndexGateway,
	sessions driven.SessionStore,
	collection string,
	perSession bool,
) *IngestService {
	return &IngestService{
		normalizer: normalizer,
		splitter:   split,
		index:      index,
		sessions:   sessions,
		collection: collection,
		perSession: perSession,
	}
}

// Ingest processes one request end to end.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (driving.IngestResult, error) {
	logger.Section("Ingest")

	outcomes, err := s.normalizer.Normalize(ctx, req)
	if err != nil {
		return driving.IngestResult{}, err
	}

	reports := make([]driving.SourceReport, len(outcomes))
	var docs []domain.Document
	var notes []string
	for i, o := range outcomes {
		reports[i] = driving.SourceReport{
			Source:     o.Document.Source,
			Note:       o.Note,
			HasContent: o.OK(),
		}
		if o.OK() {
			docs = append(docs, o.Document)
		} else if o.Note != "" {
			notes = append(notes, o.Note)
		}
	}

	if len(docs) == 0 {
		return driving.IngestResult{}, &domain.NoContentError{Notes: notes}
	}

	chunks := s.splitter.SplitAll(docs)
	logger.Debug("normalised %d documents into %d chunks", len(docs), len(chunks))

	sessionID := domain.NewSessionID()
	collection := s.collection
	if s.perSession {
		collection = s.collection + "-" + sessionID
	}

	added, err := s.index.Upsert(ctx, collection, chunks)
	if err != nil {
		return driving.IngestResult{}, fmt.Errorf("index chunks: %w", err)
	}

	session := domain.Session{
		ID:         sessionID,
		Collection: collection,
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return driving.IngestResult{}, fmt.Errorf("save session: %w", err)
	}

	logger.Info("ingested %d chunks into %q for session %s", added, collection, sessionID)
	return driving.IngestResult{
		SessionID: sessionID,
		Chunks:    len(chunks),
		Added:     added,
		Sources:   reports,
	}, nil
}
