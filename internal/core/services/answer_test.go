package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragserver/internal/adapters/driven/sessionstore/memory"
	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
)

func newAnswerFixture(t *testing.T, hits []driven.Hit, llm driven.LLMService) (*AnswerService, string) {
	t.Helper()

	sessions := memory.New()
	session := domain.Session{ID: domain.NewSessionID(), Collection: "corpus", CreatedAt: time.Now()}
	require.NoError(t, sessions.Save(context.Background(), session))

	store := &mockVectorStore{hits: hits}
	svc := NewAnswerService(sessions, NewIndexGateway(&mockEmbedder{}, store), llm, 5)
	return svc, session.ID
}

func TestAsk_HappyPath(t *testing.T) {
	hits := []driven.Hit{
		{Content: "Go is a programming language.", Source: "inline", Score: 0.9},
		{Content: "It was designed at Google.", Source: "intro.pdf", Score: 0.8},
	}
	llm := &mockLLM{reply: "Go is a language designed at Google."}
	svc, sessionID := newAnswerFixture(t, hits, llm)

	answer, err := svc.Ask(context.Background(), sessionID, "What is Go?")
	require.NoError(t, err)

	assert.Equal(t, "Go is a language designed at Google.", answer.Text)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "inline", answer.Sources[0].Source)
	assert.Equal(t, "Go is a programming language.", answer.Sources[0].Snippet)
	assert.Equal(t, "intro.pdf", answer.Sources[1].Source)
}

func TestAsk_PromptShape(t *testing.T) {
	hits := []driven.Hit{
		{Content: "first chunk", Source: "inline", Score: 0.9},
		{Content: "second chunk", Source: "talk.mp4", Score: 0.8},
	}
	llm := &mockLLM{reply: "ok"}
	svc, sessionID := newAnswerFixture(t, hits, llm)

	_, err := svc.Ask(context.Background(), sessionID, "What happened?")
	require.NoError(t, err)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Equal(t, "user", llm.messages[1].Role)

	prompt := llm.messages[1].Content
	assert.Contains(t, prompt, "Doc 1 (source: inline)\nfirst chunk")
	assert.Contains(t, prompt, "Doc 2 (source: talk.mp4)\nsecond chunk")
	assert.Contains(t, prompt, "Question: What happened?")
}

func TestAsk_SnippetCapped(t *testing.T) {
	long := strings.Repeat("a", 500)
	hits := []driven.Hit{{Content: long, Source: "inline", Score: 0.9}}
	svc, sessionID := newAnswerFixture(t, hits, &mockLLM{reply: "ok"})

	answer, err := svc.Ask(context.Background(), sessionID, "question")
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.Len(t, answer.Sources[0].Snippet, 200)
}

func TestAsk_ContextBudget(t *testing.T) {
	// Ten maximal chunks overflow the total budget; the prompt keeps only a
	// prefix of them but every hit is still cited.
	var hits []driven.Hit
	for i := 0; i < 10; i++ {
		hits = append(hits, driven.Hit{
			Content: strings.Repeat("x", 2000),
			Source:  "big.pdf",
			Score:   1 - float64(i)/10,
		})
	}
	llm := &mockLLM{reply: "ok"}

	sessions := memory.New()
	session := domain.Session{ID: "s1", Collection: "corpus", CreatedAt: time.Now()}
	require.NoError(t, sessions.Save(context.Background(), session))
	svc := NewAnswerService(sessions, NewIndexGateway(&mockEmbedder{}, &mockVectorStore{hits: hits}), llm, 10)

	answer, err := svc.Ask(context.Background(), "s1", "question")
	require.NoError(t, err)

	prompt := llm.messages[1].Content
	assert.LessOrEqual(t, strings.Count(prompt, "Doc "), 5, "budget should cut off trailing blocks")
	assert.Len(t, answer.Sources, 10, "citations cover every retrieved hit")
}

func TestAsk_UnknownSession(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	svc, _ := newAnswerFixture(t, nil, llm)

	_, err := svc.Ask(context.Background(), "no-such-session", "question")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Zero(t, llm.calls, "unknown session must not reach the model")
}

func TestAsk_NoProviderConfigured(t *testing.T) {
	svc, sessionID := newAnswerFixture(t, nil, nil)

	_, err := svc.Ask(context.Background(), sessionID, "question")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderMisconfigured)
}

func TestAsk_ModelError(t *testing.T) {
	llm := &mockLLM{chatErr: errors.New("overloaded")}
	svc, sessionID := newAnswerFixture(t, []driven.Hit{{Content: "chunk", Source: "inline"}}, llm)

	_, err := svc.Ask(context.Background(), sessionID, "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language model")
}

func TestAsk_NoHitsStillAnswers(t *testing.T) {
	llm := &mockLLM{reply: "The context does not contain that information."}
	svc, sessionID := newAnswerFixture(t, nil, llm)

	answer, err := svc.Ask(context.Background(), sessionID, "question")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
	assert.Empty(t, answer.Sources)
}
