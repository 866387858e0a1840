package domain

import "time"

// HistoryEntry records one AI feature interaction for a user.
type HistoryEntry struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Feature   FeatureType `json:"feature"`
	Prompt    string      `json:"prompt"`
	Response  string      `json:"response"` // StructuredResponse serialized as JSON
	CreatedAt time.Time   `json:"created_at"`
}

// TruncatedPrompt returns the prompt cut to max runes, for compact
// history summaries injected into chat context.
func (h *HistoryEntry) TruncatedPrompt(max int) string {
	runes := []rune(h.Prompt)
	if len(runes) <= max {
		return h.Prompt
	}
	return string(runes[:max]) + "..."
}
