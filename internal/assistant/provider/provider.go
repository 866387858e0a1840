// Package provider defines the Provider interface and the adapters that wrap
// external AI services. Every backend is normalized to the same contract: a
// request in, raw text out, or an error. The rest of the pipeline never needs
// to know which provider actually handled a request.
package provider

import (
	"context"
	"errors"
)

// Message roles used across providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUnavailable marks a provider that cannot be used because its credential
// is missing. It is reported at construction time, never mid-call.
var ErrUnavailable = errors.New("provider not configured")

// Message is a single role-tagged message sent to a provider.
type Message struct {
	Role    string
	Content string
}

// Request is the normalized provider request. Adapters translate it into
// their backend-specific wire format.
type Request struct {
	Messages []Message

	// ImageBase64/ImageMime carry optional image content for
	// vision-capable providers. Text providers ignore them.
	ImageBase64 string
	ImageMime   string

	Temperature float32
	MaxTokens   int
}

// Provider is the interface every AI backend adapter must satisfy.
type Provider interface {
	// Name returns the provider identifier used in logs.
	Name() string

	// Generate sends the request and returns the raw text payload extracted
	// from the provider's response envelope. Network errors, timeouts,
	// non-2xx statuses, and provider-reported errors come back as errors.
	// Whether the text parses into the caller's expected structure is the
	// caller's concern, not the adapter's.
	Generate(ctx context.Context, req Request) (string, error)
}
