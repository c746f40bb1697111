package driven

import "context"

// LLMService produces text from a conversation with a language model.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Anthropic (Claude)
//   - Local OpenAI-compatible servers
type LLMService interface {
	// Chat sends the messages and returns the model's reply as plain text.
	// The call is synchronous and is not retried on failure.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
