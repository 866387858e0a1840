package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/novalabs/nova-server/internal/assistant/provider"
	"github.com/novalabs/nova-server/internal/domain"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

// HistoryReader supplies the recent-interaction window used to enrich chat
// prompts. Implemented by the store.
type HistoryReader interface {
	GetRecentHistory(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error)
}

// Options configures a Pipeline. All fields are read once at construction;
// the pipeline holds no mutable state afterwards.
type Options struct {
	// Providers are the text-capable providers in priority order. An empty
	// list is a normal operating mode: every feature is served by the mock.
	Providers []provider.Provider

	// VisionProviders serve the image-analysis feature, in priority order.
	VisionProviders []provider.Provider

	// History is optional; without it chat prompts carry no context.
	History HistoryReader

	// Timeout bounds each individual provider attempt.
	Timeout time.Duration

	// HistoryWindow caps how many recent interactions enrich a chat prompt.
	HistoryWindow int
}

// Pipeline turns feature requests into structured responses. It tries
// providers in priority order with a single timeout-bounded attempt each,
// validates every payload, and falls back to the deterministic mock when
// nothing succeeds. No provider or validation error ever escapes it: a
// feature call always yields exactly one schema-complete result.
type Pipeline struct {
	providers []provider.Provider
	vision    []provider.Provider
	history   HistoryReader
	timeout   time.Duration
	builder   PromptBuilder
	mock      MockGenerator
}

// New creates a Pipeline from immutable options.
func New(opts Options) *Pipeline {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Pipeline{
		providers: opts.Providers,
		vision:    opts.VisionProviders,
		history:   opts.History,
		timeout:   timeout,
		builder:   PromptBuilder{HistoryWindow: opts.HistoryWindow},
	}
}

// AnalyzeStudyStyle runs the learning-style quiz analysis.
func (p *Pipeline) AnalyzeStudyStyle(ctx context.Context, in domain.StudyStyleInput) *domain.StudyStyleResult {
	spec := p.builder.StudyStyle(in)
	return invoke(p, ctx, domain.FeatureStudyStyle, p.providers, spec, parseStudyStyle,
		func() *domain.StudyStyleResult { return p.mock.StudyStyle(in) })
}

// AssessStress runs the lifestyle-survey stress assessment.
func (p *Pipeline) AssessStress(ctx context.Context, in domain.StressInput) *domain.StressResult {
	spec := p.builder.Stress(in)
	return invoke(p, ctx, domain.FeatureStress, p.providers, spec, parseStress,
		func() *domain.StressResult { return p.mock.Stress(in) })
}

// GenerateRoadmap builds a week-by-week study plan for a course.
func (p *Pipeline) GenerateRoadmap(ctx context.Context, in domain.RoadmapInput) *domain.RoadmapResult {
	spec := p.builder.Roadmap(in)
	return invoke(p, ctx, domain.FeatureRoadmap, p.providers, spec, parseRoadmap,
		func() *domain.RoadmapResult { return p.mock.Roadmap(in) })
}

// Chat answers a free-text message, enriched with the user's recent history.
func (p *Pipeline) Chat(ctx context.Context, userID string, in domain.MessageInput) *domain.ChatResult {
	var history []*domain.HistoryEntry
	if p.history != nil && userID != "" {
		window := p.builder.HistoryWindow
		if window <= 0 {
			window = 3
		}
		var err error
		history, err = p.history.GetRecentHistory(ctx, userID, window)
		if err != nil {
			// Context enrichment is best effort; the chat still runs.
			slog.Warn("failed to load chat history context", "user_id", userID, "error", err)
			history = nil
		}
	}

	spec := p.builder.Chat(in, history)
	return invoke(p, ctx, domain.FeatureChat, p.providers, spec, parseChat,
		func() *domain.ChatResult { return p.mock.Chat(in) })
}

// Support answers an emotional-support message.
func (p *Pipeline) Support(ctx context.Context, in domain.MessageInput) *domain.SupportResult {
	spec := p.builder.Support(in)
	return invoke(p, ctx, domain.FeatureSupport, p.providers, spec, parseSupport,
		func() *domain.SupportResult { return p.mock.Support(in) })
}

// AnalyzeImage labels and summarizes an uploaded study image. It follows the
// same resilient contract as the text features, including the mock fallback.
func (p *Pipeline) AnalyzeImage(ctx context.Context, in domain.ImageInput) *domain.ImageAnalyzeResult {
	spec := p.builder.Image(in)
	return invoke(p, ctx, domain.FeatureImageAnalyze, p.vision, spec, parseImage,
		func() *domain.ImageAnalyzeResult { return p.mock.Image(in) })
}

// invoke drives the provider attempt loop for one feature call. Each provider
// gets exactly one timeout-bounded attempt; a payload that fails parsing or
// schema validation counts the same as a call failure. When every provider is
// exhausted (including the zero-providers case) the canned fallback is
// returned, so the caller always receives a complete result.
func invoke[T any](
	p *Pipeline,
	ctx context.Context,
	feature domain.FeatureType,
	providers []provider.Provider,
	spec PromptSpec,
	parse func(string) (*T, error),
	fallback func() *T,
) *T {
	req := provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: spec.System},
			{Role: provider.RoleUser, Content: spec.User},
		},
		ImageBase64: spec.ImageBase64,
		ImageMime:   spec.ImageMime,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	for _, prov := range providers {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		raw, err := prov.Generate(attemptCtx, req)
		cancel()
		if err != nil {
			slog.Warn("provider attempt failed", "feature", feature, "provider", prov.Name(), "error", err)
			continue
		}

		result, err := parse(raw)
		if err != nil {
			slog.Warn("provider response rejected", "feature", feature, "provider", prov.Name(), "error", err)
			continue
		}

		slog.Info("feature served by provider", "feature", feature, "provider", prov.Name())
		return result
	}

	slog.Info("serving canned response", "feature", feature, "providers_tried", len(providers))
	return fallback()
}
