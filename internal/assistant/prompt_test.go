package assistant

import (
	"strings"
	"testing"

	"github.com/novalabs/nova-server/internal/domain"
)

func TestChatPromptWindowsHistory(t *testing.T) {
	b := PromptBuilder{HistoryWindow: 3}

	history := []*domain.HistoryEntry{
		{Feature: domain.FeatureChat, Prompt: "newest"},
		{Feature: domain.FeatureStress, Prompt: "second"},
		{Feature: domain.FeatureRoadmap, Prompt: "third"},
		{Feature: domain.FeatureSupport, Prompt: "too old"},
	}

	spec := b.Chat(domain.MessageInput{Message: "hi"}, history)

	for _, want := range []string{"newest", "second", "third"} {
		if !strings.Contains(spec.System, want) {
			t.Errorf("System prompt missing history entry %q", want)
		}
	}
	if strings.Contains(spec.System, "too old") {
		t.Error("System prompt includes entry beyond the window")
	}
	if spec.User != "hi" {
		t.Errorf("Expected user message passthrough, got %q", spec.User)
	}
}

func TestChatPromptTruncatesLongPriorPrompts(t *testing.T) {
	b := PromptBuilder{HistoryWindow: 3}

	long := strings.Repeat("x", 500)
	spec := b.Chat(domain.MessageInput{Message: "hi"}, []*domain.HistoryEntry{
		{Feature: domain.FeatureChat, Prompt: long},
	})

	if strings.Contains(spec.System, long) {
		t.Error("Prior prompt was not truncated")
	}
	if !strings.Contains(spec.System, "xxx...") {
		t.Error("Expected truncation marker in summarized history")
	}
}

func TestStructuredPromptsSpellOutJSONShape(t *testing.T) {
	b := PromptBuilder{}

	tests := []struct {
		name   string
		spec   PromptSpec
		fields []string
	}{
		{
			name:   "study style",
			spec:   b.StudyStyle(domain.StudyStyleInput{Answers: []string{"A", "B"}}),
			fields: []string{`"style"`, `"strengths"`, `"recommendations"`, `"summary"`},
		},
		{
			name:   "stress",
			spec:   b.Stress(domain.StressInput{SleepHours: 7, StudyHours: 5, Workload: "moderate"}),
			fields: []string{`"level"`, `"drivers"`, `"suggestions"`},
		},
		{
			name:   "roadmap",
			spec:   b.Roadmap(domain.RoadmapInput{CourseName: "Calculus", WeeklyHours: 6, Weeks: 5}),
			fields: []string{`"weeks"`, `"week"`, `"topics"`, `"activities"`, `"mindmap"`},
		},
		{
			name:   "image",
			spec:   b.Image(domain.ImageInput{ImageBase64: "aGk=", MimeType: "image/png"}),
			fields: []string{`"labels"`, `"name"`, `"confidence"`, `"summary"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, field := range tt.fields {
				if !strings.Contains(tt.spec.User, field) {
					t.Errorf("Prompt missing field %s", field)
				}
			}
		})
	}
}

func TestImagePromptCarriesImageContent(t *testing.T) {
	b := PromptBuilder{}

	spec := b.Image(domain.ImageInput{ImageBase64: "aGVsbG8=", MimeType: "image/jpeg", Question: "what formula is this?"})
	if spec.ImageBase64 != "aGVsbG8=" || spec.ImageMime != "image/jpeg" {
		t.Error("Image content not carried into the prompt spec")
	}
	if !strings.Contains(spec.User, "what formula is this?") {
		t.Error("Custom question missing from prompt")
	}
}
