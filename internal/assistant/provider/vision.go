package provider

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// VisionProvider wraps an OpenAI-compatible vision endpoint for image
// labeling. It is a distinct adapter from OpenAIProvider: it may point at a
// different deployment and refuses requests without image content.
type VisionProvider struct {
	client *openai.Client
	model  string
}

// NewVision creates the image-labeling provider adapter. Returns
// ErrUnavailable when no API key is configured.
func NewVision(apiKey, model, baseURL string) (*VisionProvider, error) {
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

	return &VisionProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name implements Provider.
func (p *VisionProvider) Name() string { return "vision" }

// Generate implements Provider.
func (p *VisionProvider) Generate(ctx context.Context, req Request) (string, error) {
	if req.ImageBase64 == "" {
		return "", fmt.Errorf("vision provider requires image content")
	}

	slog.Debug("provider attempt", "provider", p.Name(), "model", p.model)

	mime := req.ImageMime
	if mime == "" {
		mime = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, req.ImageBase64)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role != RoleUser {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    m.Role,
				Content: m.Content,
			})
			continue
		}
		// User message carries the image alongside the instruction text.
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: m.Content,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: dataURL,
					},
				},
			},
		})
	}

	ccr := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		ccr.MaxCompletionTokens = req.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		slog.Warn("provider call failed", "provider", p.Name(), "error", err)
		return "", fmt.Errorf("vision chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.Warn("provider returned no choices", "provider", p.Name())
		return "", fmt.Errorf("vision returned no choices")
	}

	slog.Debug("provider success", "provider", p.Name())
	return resp.Choices[0].Message.Content, nil
}
