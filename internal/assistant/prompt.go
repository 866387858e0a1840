// Package assistant implements the AI feature pipeline: prompt construction,
// provider orchestration, response parsing, and the deterministic mock
// fallback that keeps every feature available without credentials.
package assistant

import (
	"fmt"
	"strings"

	"github.com/novalabs/nova-server/internal/domain"
)

// historyPromptRunes bounds how much of a prior prompt is quoted when
// summarizing history for chat context.
const historyPromptRunes = 80

// PromptSpec is the provider-agnostic prompt for one feature invocation.
type PromptSpec struct {
	System string
	User   string

	// Image content, set only for the image-analysis feature.
	ImageBase64 string
	ImageMime   string
}

// PromptBuilder assembles feature-specific prompts. For the structured
// features the user message spells out the exact JSON shape expected back so
// provider output is machine-parseable. Pure transformation, no I/O; payload
// validation is the caller's responsibility.
type PromptBuilder struct {
	// HistoryWindow caps how many recent interactions enrich a chat prompt.
	HistoryWindow int
}

const novaSystemPrompt = "You are NOVA, a friendly and practical study assistant for students. " +
	"Be concise, concrete, and encouraging."

// StudyStyle builds the learning-style analysis prompt.
func (b PromptBuilder) StudyStyle(in domain.StudyStyleInput) PromptSpec {
	var sb strings.Builder
	sb.WriteString("A student answered a learning-style quiz. Their answers, one per question:\n")
	for i, a := range in.Answers {
		fmt.Fprintf(&sb, "Q%d: %s\n", i+1, a)
	}
	sb.WriteString("\nAnalyze their dominant learning style. Respond with ONLY a JSON object, no prose, shaped exactly:\n")
	sb.WriteString(`{"style": string, "strengths": [string, ...], "recommendations": [string, ...], "summary": string}`)

	return PromptSpec{System: novaSystemPrompt, User: sb.String()}
}

// Stress builds the stress-assessment prompt from the lifestyle survey.
func (b PromptBuilder) Stress(in domain.StressInput) PromptSpec {
	var sb strings.Builder
	sb.WriteString("A student filled in a lifestyle survey:\n")
	fmt.Fprintf(&sb, "- Sleep per night: %.1f hours\n", in.SleepHours)
	fmt.Fprintf(&sb, "- Study per day: %.1f hours\n", in.StudyHours)
	fmt.Fprintf(&sb, "- Exercise days per week: %d\n", in.ExerciseDays)
	fmt.Fprintf(&sb, "- Screen time per day: %.1f hours\n", in.ScreenHours)
	fmt.Fprintf(&sb, "- Perceived workload: %s\n", in.Workload)
	if in.MainConcern != "" {
		fmt.Fprintf(&sb, "- Main concern: %s\n", in.MainConcern)
	}
	sb.WriteString("\nAssess their stress level. Respond with ONLY a JSON object, no prose, shaped exactly:\n")
	sb.WriteString(`{"level": "Low"|"Medium"|"High", "drivers": [string, ...], "suggestions": [string, ...]}`)

	return PromptSpec{System: novaSystemPrompt, User: sb.String()}
}

// Roadmap builds the study-plan generation prompt.
func (b PromptBuilder) Roadmap(in domain.RoadmapInput) PromptSpec {
	weeks := in.Weeks
	if weeks <= 0 {
		weeks = 4
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a %d-week study roadmap for the course %q.\n", weeks, in.CourseName)
	if in.Description != "" {
		fmt.Fprintf(&sb, "Course description: %s\n", in.Description)
	}
	fmt.Fprintf(&sb, "The student can invest %d hours per week.\n", in.WeeklyHours)
	sb.WriteString("\nRespond with ONLY a JSON object, no prose, shaped exactly:\n")
	sb.WriteString(`{"weeks": [{"week": number, "topics": [string, ...], "activities": [string, ...]}, ...], "mindmap": string}`)
	sb.WriteString("\nThe mindmap field is a short indented text outline of the course.")

	return PromptSpec{System: novaSystemPrompt, User: sb.String()}
}

// Chat builds the conversational prompt, enriched with a compact summary of
// the student's most recent interactions.
func (b PromptBuilder) Chat(in domain.MessageInput, history []*domain.HistoryEntry) PromptSpec {
	system := novaSystemPrompt +
		" Answer the student's question directly in plain text, no JSON."

	window := b.HistoryWindow
	if window <= 0 {
		window = 3
	}
	if len(history) > window {
		history = history[:window]
	}

	if len(history) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\nRecent interactions with this student, newest first:\n")
		for _, h := range history {
			fmt.Fprintf(&sb, "- [%s] %s\n", h.Feature, h.TruncatedPrompt(historyPromptRunes))
		}
		system += sb.String()
	}

	return PromptSpec{System: system, User: in.Message}
}

// Support builds the emotional-support coaching prompt.
func (b PromptBuilder) Support(in domain.MessageInput) PromptSpec {
	system := novaSystemPrompt +
		" The student is sharing something they are struggling with. Respond with warmth and practical coping steps. " +
		"Plain text, no JSON. You are not a therapist; suggest professional help for anything serious."

	return PromptSpec{System: system, User: in.Message}
}

// Image builds the image-analysis prompt.
func (b PromptBuilder) Image(in domain.ImageInput) PromptSpec {
	question := in.Question
	if question == "" {
		question = "Describe this study material."
	}

	var sb strings.Builder
	sb.WriteString(question)
	sb.WriteString("\n\nRespond with ONLY a JSON object, no prose, shaped exactly:\n")
	sb.WriteString(`{"labels": [{"name": string, "confidence": number}, ...], "summary": string}`)

	return PromptSpec{
		System:      novaSystemPrompt,
		User:        sb.String(),
		ImageBase64: in.ImageBase64,
		ImageMime:   in.MimeType,
	}
}
