package domain

import "fmt"

// StudyStyleResult is the structured outcome of a study-style analysis.
type StudyStyleResult struct {
	Style           string   `json:"style"`
	Strengths       []string `json:"strengths"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// Validate checks that every contract field is populated.
func (r *StudyStyleResult) Validate() error {
	if r.Style == "" {
		return fmt.Errorf("style is empty")
	}
	if len(r.Strengths) == 0 {
		return fmt.Errorf("strengths is empty")
	}
	if len(r.Recommendations) == 0 {
		return fmt.Errorf("recommendations is empty")
	}
	if r.Summary == "" {
		return fmt.Errorf("summary is empty")
	}
	return nil
}

// StressResult is the structured outcome of a stress assessment.
type StressResult struct {
	Level       string   `json:"level"` // "Low", "Medium", "High"
	Drivers     []string `json:"drivers"`
	Suggestions []string `json:"suggestions"`
}

// Validate checks that every contract field is populated.
func (r *StressResult) Validate() error {
	switch r.Level {
	case "Low", "Medium", "High":
	default:
		return fmt.Errorf("level %q is not one of Low/Medium/High", r.Level)
	}
	if len(r.Drivers) == 0 {
		return fmt.Errorf("drivers is empty")
	}
	if len(r.Suggestions) == 0 {
		return fmt.Errorf("suggestions is empty")
	}
	return nil
}

// RoadmapWeek is one week of a generated study plan.
type RoadmapWeek struct {
	Week       int      `json:"week"`
	Topics     []string `json:"topics"`
	Activities []string `json:"activities"`
}

// RoadmapResult is the structured outcome of roadmap generation.
type RoadmapResult struct {
	Weeks   []RoadmapWeek `json:"weeks"`
	Mindmap string        `json:"mindmap"`
}

// Validate checks that every contract field is populated.
func (r *RoadmapResult) Validate() error {
	if len(r.Weeks) == 0 {
		return fmt.Errorf("weeks is empty")
	}
	for i, w := range r.Weeks {
		if w.Week <= 0 {
			return fmt.Errorf("week %d has no week number", i+1)
		}
		if len(w.Topics) == 0 {
			return fmt.Errorf("week %d has no topics", w.Week)
		}
	}
	if r.Mindmap == "" {
		return fmt.Errorf("mindmap is empty")
	}
	return nil
}

// ChatResult is the structured outcome of a chat exchange.
type ChatResult struct {
	Answer string `json:"answer"`
}

// Validate checks that the answer is non-empty.
func (r *ChatResult) Validate() error {
	if r.Answer == "" {
		return fmt.Errorf("answer is empty")
	}
	return nil
}

// SupportResult is the structured outcome of a support-coaching exchange.
type SupportResult struct {
	Response   string `json:"response"`
	Disclaimer string `json:"disclaimer"`
}

// Validate checks that every contract field is populated.
func (r *SupportResult) Validate() error {
	if r.Response == "" {
		return fmt.Errorf("response is empty")
	}
	if r.Disclaimer == "" {
		return fmt.Errorf("disclaimer is empty")
	}
	return nil
}

// ImageLabel is a single label produced by image analysis.
type ImageLabel struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ImageAnalyzeResult is the structured outcome of image analysis.
type ImageAnalyzeResult struct {
	Labels  []ImageLabel `json:"labels"`
	Summary string       `json:"summary"`
}

// Validate checks that every contract field is populated.
func (r *ImageAnalyzeResult) Validate() error {
	if len(r.Labels) == 0 {
		return fmt.Errorf("labels is empty")
	}
	if r.Summary == "" {
		return fmt.Errorf("summary is empty")
	}
	return nil
}
