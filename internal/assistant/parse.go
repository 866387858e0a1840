package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/novalabs/nova-server/internal/domain"
)

// extractJSON pulls a JSON object out of raw provider text. Strategies are
// tried in fixed order, first structurally valid match wins:
//  1. the trimmed text itself
//  2. the body of a fenced code block
//  3. the first balanced {...} span
func extractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return trimmed, true
	}

	if fenced, ok := extractFencedBlock(trimmed); ok {
		if json.Valid([]byte(fenced)) && strings.HasPrefix(fenced, "{") {
			return fenced, true
		}
	}

	if span, ok := extractBalancedObject(trimmed); ok {
		if json.Valid([]byte(span)) {
			return span, true
		}
	}

	return "", false
}

func extractFencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	rest := s[start+3:]
	// Skip an optional language tag on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func extractBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func decodeInto(raw string, v interface{ Validate() error }) error {
	payload, ok := extractJSON(raw)
	if !ok {
		return fmt.Errorf("no JSON object found in provider output")
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode provider output: %w", err)
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("provider output failed schema validation: %w", err)
	}
	return nil
}

func parseStudyStyle(raw string) (*domain.StudyStyleResult, error) {
	var result domain.StudyStyleResult
	if err := decodeInto(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parseStress(raw string) (*domain.StressResult, error) {
	var result domain.StressResult
	if err := decodeInto(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parseRoadmap(raw string) (*domain.RoadmapResult, error) {
	var result domain.RoadmapResult
	if err := decodeInto(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parseImage(raw string) (*domain.ImageAnalyzeResult, error) {
	var result domain.ImageAnalyzeResult
	if err := decodeInto(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// parseChat accepts any non-empty text: the chat contract is free prose.
func parseChat(raw string) (*domain.ChatResult, error) {
	answer := strings.TrimSpace(raw)
	result := domain.ChatResult{Answer: answer}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// parseSupport accepts any non-empty text and attaches the fixed disclaimer,
// keeping the live and mock paths schema-compatible.
func parseSupport(raw string) (*domain.SupportResult, error) {
	response := strings.TrimSpace(raw)
	result := domain.SupportResult{
		Response:   response,
		Disclaimer: supportDisclaimer,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}
