package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"faq-backend/internal/llm"
	"faq-backend/internal/shared/telemetry"
)

// Client implements llm.Client using the OpenAI Chat Completions API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient constructs a new OpenAI client. baseURL may be empty for the
// default endpoint (or point at any OpenAI-compatible server).
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}

	config := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Complete performs one blocking completion call.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		telemetry.Error("llm.complete", map[string]any{
			"model": c.model,
			"error": err.Error(),
		})
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai response missing choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai response empty content")
	}

	telemetry.Info("llm.complete", map[string]any{
		"model":             c.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})
	return content, nil
}

// CompleteStream streams incremental chunks to onChunk. A provider failure
// mid-stream is absorbed into one final diagnostic chunk so already-sent
// output is not lost.
func (c *Client) CompleteStream(ctx context.Context, messages []llm.Message, onChunk func(string) error) error {
	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: reqMessages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("openai stream open: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			telemetry.Error("llm.stream", map[string]any{"model": c.model, "error": err.Error()})
			return onChunk(fmt.Sprintf("\n[generation error: %v]", err))
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
}

var _ llm.Client = (*Client)(nil)
