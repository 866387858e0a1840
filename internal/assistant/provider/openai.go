package provider

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider wraps the OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the chat-completion provider adapter. Returns
// ErrUnavailable when no API key is configured.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// Generate implements Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	slog.Debug("provider attempt", "provider", p.Name(), "model", p.model)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	ccr := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if req.Temperature > 0 {
		ccr.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		ccr.MaxCompletionTokens = req.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		slog.Warn("provider call failed", "provider", p.Name(), "error", err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.Warn("provider returned no choices", "provider", p.Name())
		return "", fmt.Errorf("openai returned no choices")
	}

	slog.Debug("provider success", "provider", p.Name(), "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
