package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiCandidateModels is the fixed-order list of models tried when the
// configured one fails at the call level. Advancing happens only on call
// failures; a successful response with an odd shape is returned as-is for
// the invoker to judge.
var geminiCandidateModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GeminiProvider wraps the Gemini-style generateContent REST API. It holds an
// ordered list of candidate models and walks it on call-level failures.
type GeminiProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	models     []string
}

// NewGemini creates the alternate-model provider adapter. Returns
// ErrUnavailable when no API key is configured.
func NewGemini(apiKey, model, baseURL string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	models := make([]string, 0, 1+len(geminiCandidateModels))
	if model != "" {
		models = append(models, model)
	}
	for _, m := range geminiCandidateModels {
		if m != model {
			models = append(models, m)
		}
	}

	return &GeminiProvider{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		models:     models,
	}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate implements Provider. Candidate models are tried sequentially,
// never concurrently, so cost and latency stay predictable.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for _, model := range p.models {
		slog.Debug("provider attempt", "provider", p.Name(), "model", model)

		text, err := p.generateWithModel(ctx, model, req)
		if err != nil {
			slog.Warn("provider call failed", "provider", p.Name(), "model", model, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		slog.Debug("provider success", "provider", p.Name(), "model", model)
		return text, nil
	}
	return "", fmt.Errorf("all gemini candidates failed: %w", lastErr)
}

func (p *GeminiProvider) generateWithModel(ctx context.Context, model string, req Request) (string, error) {
	body := geminiRequest{
		GenerationConfig: &geminiGenConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}

	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			body.SystemInstruction = &geminiContent{
				Parts: []geminiPart{{Text: m.Content}},
			}
		case RoleAssistant:
			body.Contents = append(body.Contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: m.Content}},
			})
		default:
			body.Contents = append(body.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: m.Content}},
			})
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncateForLog(raw))
	}

	return extractGeminiText(raw)
}

// extractGeminiText pulls the generated text out of the response envelope.
// The documented shape is candidates[0].content.parts[].text, but the
// envelope is probed defensively since it is not strictly guaranteed.
func extractGeminiText(raw []byte) (string, error) {
	var envelope geminiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode response envelope: %w", err)
	}

	if envelope.Error != nil {
		return "", fmt.Errorf("gemini reported error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}

	if len(envelope.Candidates) > 0 {
		var sb strings.Builder
		for _, part := range envelope.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	// Fall back to loosely probing alternate field names some proxy
	// deployments use.
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err == nil {
		for _, key := range []string{"text", "output", "response"} {
			if s, ok := generic[key].(string); ok && s != "" {
				return s, nil
			}
		}
	}

	return "", fmt.Errorf("gemini response contained no text")
}

func truncateForLog(raw []byte) string {
	const max = 256
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
