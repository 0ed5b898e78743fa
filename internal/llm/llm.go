package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client calls an OpenAI-compatible chat completion endpoint. The API key is
// deliberately not part of the client: every run carries its own caller
// credential, so the key travels with the call.
type Client struct {
	baseURL string
	model   string
}

func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
	}
}

// Complete sends one prompt under the briefing system prompt and returns the
// raw completion text.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.baseURL
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// No ResponseFormat: not all models support json_object mode.
		// The system prompt instructs the model to return pure JSON.
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("completion call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
