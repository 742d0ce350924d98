package llm

import (
	"context"
	"errors"
)

// Message is one chat message sent to the provider.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Client abstracts the LLM provider's completion API.
type Client interface {
	// Complete performs one blocking completion and returns the first choice's
	// full message content.
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteStream forwards each non-empty incremental chunk to onChunk as it
	// arrives. A mid-stream provider failure is delivered to onChunk as one
	// final diagnostic chunk instead of being returned.
	CompleteStream(ctx context.Context, messages []Message, onChunk func(chunk string) error) error
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func (PlaceholderClient) CompleteStream(context.Context, []Message, func(string) error) error {
	return ErrNotConfigured
}
