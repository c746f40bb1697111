package services

import (
	"context"
	"fmt"
	"strings"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
	"ragserver/internal/core/ports/driving"
	"ragserver/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 5

	// chunkContextCap bounds the characters any single chunk contributes
	// to the prompt, regardless of the configured chunk size.
	chunkContextCap = 1200

	// contextBudget bounds the total characters of all context blocks, so
	// a large configured k cannot exceed the model's input limit.
	contextBudget = 6000

	// snippetCap bounds the length of cited source snippets.
	snippetCap = 200

	answerMaxTokens = 512
)

// systemPrompt constrains the model to the retrieved context.
const systemPrompt = "You answer questions using only the provided context. " +
	"If the context does not contain the information needed, say so explicitly. " +
	"Keep answers short and factual."

// AnswerService is the retrieval-answer engine: retrieve top-k chunks for a
// question, assemble a bounded prompt context and ask the language model.
type AnswerService struct {
	sessions driven.SessionStore
	index    *IndexGateway
	llm      driven.LLMService
	topK     int
}

// NewAnswerService creates an answer service. llm may be nil when no
// provider credential is configured; asks then fail before any network call.
func NewAnswerService(sessions driven.SessionStore, index *IndexGateway, llm driven.LLMService, topK int) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerService{
		sessions: sessions,
		index:    index,
		llm:      llm,
		topK:     topK,
	}
}

// Ask answers a question against the corpus bound to sessionID.
func (s *AnswerService) Ask(ctx context.Context, sessionID, query string) (domain.Answer, error) {
	logger.Section("Ask")

	if s.llm == nil {
		return domain.Answer{}, domain.ErrProviderMisconfigured
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Answer{}, err
	}

	hits, err := s.index.Search(ctx, session.Collection, query, s.topK)
	if err != nil {
		return domain.Answer{}, err
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildContext(hits) + "\n\nQuestion: " + query},
	}

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: answerMaxTokens})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("language model: %w", err)
	}

	sources := make([]domain.Citation, len(hits))
	for i, h := range hits {
		sources[i] = domain.Citation{
			Source:  h.Source,
			Snippet: truncate(h.Content, snippetCap),
		}
	}

	logger.Debug("answered with %d sources", len(sources))
	return domain.Answer{Text: text, Sources: sources}, nil
}

// buildContext assembles labeled blocks for the prompt, in retrieval order.
// Each block is capped per chunk and appending stops once the total budget
// is reached.
func buildContext(hits []driven.Hit) string {
	var (
		blocks []string
		total  int
	)
	for i, h := range hits {
		block := fmt.Sprintf("Doc %d (source: %s)\n%s", i+1, h.Source, truncate(h.Content, chunkContextCap))
		if total+len(block) > contextBudget && len(blocks) > 0 {
			logger.Debug("context budget reached after %d blocks", len(blocks))
			break
		}
		blocks = append(blocks, block)
		total += len(block)
	}
	return strings.Join(blocks, "\n\n")
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
