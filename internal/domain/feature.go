// Package domain contains core domain types for the NOVA application.
package domain

import "fmt"

// FeatureType identifies one of the supported study-assistant capabilities.
type FeatureType string

const (
	FeatureStudyStyle   FeatureType = "study_style"
	FeatureStress       FeatureType = "stress"
	FeatureRoadmap      FeatureType = "roadmap"
	FeatureChat         FeatureType = "chat"
	FeatureSupport      FeatureType = "support"
	FeatureImageAnalyze FeatureType = "image_analyze"
)

// Valid reports whether f is one of the known feature types.
func (f FeatureType) Valid() bool {
	switch f {
	case FeatureStudyStyle, FeatureStress, FeatureRoadmap,
		FeatureChat, FeatureSupport, FeatureImageAnalyze:
		return true
	}
	return false
}

// StudyStyleInput carries the learning-style quiz answers.
type StudyStyleInput struct {
	// Answers holds one selected option ("A".."D") per quiz question.
	Answers []string `json:"answers"`
}

// Validate checks required fields on the quiz payload.
func (in *StudyStyleInput) Validate() error {
	if len(in.Answers) == 0 {
		return fmt.Errorf("answers are required")
	}
	for i, a := range in.Answers {
		if a == "" {
			return fmt.Errorf("answer %d is empty", i+1)
		}
	}
	return nil
}

// StressInput carries the lifestyle survey used for stress assessment.
type StressInput struct {
	SleepHours    float64 `json:"sleep_hours"`
	StudyHours    float64 `json:"study_hours"`
	ExerciseDays  int     `json:"exercise_days"`
	ScreenHours   float64 `json:"screen_hours"`
	Workload      string  `json:"workload"` // "light", "moderate", "heavy"
	MainConcern   string  `json:"main_concern,omitempty"`
}

// Validate checks required fields on the survey payload.
func (in *StressInput) Validate() error {
	if in.SleepHours <= 0 || in.SleepHours > 24 {
		return fmt.Errorf("sleep_hours must be between 0 and 24")
	}
	if in.StudyHours < 0 || in.StudyHours > 24 {
		return fmt.Errorf("study_hours must be between 0 and 24")
	}
	if in.Workload == "" {
		return fmt.Errorf("workload is required")
	}
	return nil
}

// MaxRoadmapWeeks bounds the length of a requested study plan. Generated
// results grow linearly with the week count, so the limit is enforced at
// validation time.
const MaxRoadmapWeeks = 52

// RoadmapInput describes the course a learner wants a study plan for.
type RoadmapInput struct {
	CourseName  string `json:"course_name"`
	Description string `json:"description"`
	WeeklyHours int    `json:"weekly_hours"`
	Weeks       int    `json:"weeks"`
}

// Validate checks required fields on the roadmap payload.
func (in *RoadmapInput) Validate() error {
	if in.CourseName == "" {
		return fmt.Errorf("course_name is required")
	}
	if in.WeeklyHours <= 0 {
		return fmt.Errorf("weekly_hours must be positive")
	}
	if in.Weeks <= 0 {
		in.Weeks = 4
	}
	if in.Weeks > MaxRoadmapWeeks {
		return fmt.Errorf("weeks must be at most %d", MaxRoadmapWeeks)
	}
	return nil
}

// MessageInput carries a free-text message for the chat and support features.
type MessageInput struct {
	Message string `json:"message"`
}

// Validate checks that the message is non-empty.
func (in *MessageInput) Validate() error {
	if in.Message == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

// ImageInput carries an uploaded image for analysis.
type ImageInput struct {
	// ImageBase64 is the raw image content, base64 encoded without a data: prefix.
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Question    string `json:"question,omitempty"`
}

// Validate checks required fields on the image payload.
func (in *ImageInput) Validate() error {
	if in.ImageBase64 == "" {
		return fmt.Errorf("image_base64 is required")
	}
	if in.MimeType == "" {
		in.MimeType = "image/png"
	}
	return nil
}
