package assistant

import (
	"fmt"
	"strings"

	"github.com/novalabs/nova-server/internal/domain"
)

// MockGenerator produces deterministic, schema-complete canned responses for
// every feature. It is the guaranteed fallback when no provider succeeds:
// pure, I/O-free, and byte-stable for a given input.
type MockGenerator struct{}

// chatTopic is one canned chat category. Keyword checks run in slice order;
// the first matching topic wins, so precedence is fixed by the table.
type chatTopic struct {
	keywords []string
	answer   string
}

var chatTopics = []chatTopic{
	{
		keywords: []string{"study style", "learning style", "learning", "study technique"},
		answer: "Everyone learns differently! Visual learners benefit from diagrams and color-coded notes, " +
			"auditory learners from discussing material out loud, and kinesthetic learners from hands-on practice. " +
			"Try the study-style quiz in NOVA to find out which techniques fit you best.",
	},
	{
		keywords: []string{"stress", "lifestyle", "anxiety", "overwhelmed", "burnout"},
		answer: "Feeling stressed is common around deadlines. Protect your sleep first, break work into " +
			"25-minute focus blocks with short breaks, and get some movement every day. " +
			"NOVA's stress check can give you a more personal read on what is driving it.",
	},
	{
		keywords: []string{"roadmap", "course", "plan", "schedule", "curriculum"},
		answer: "A good roadmap starts from the exam date and works backwards: list the course topics, " +
			"spread them over the weeks you have, and keep the last week for revision and practice tests. " +
			"NOVA's roadmap generator can draft a week-by-week plan from your course description.",
	},
}

const genericChatAnswer = "Here are a few NOVA study tips: review new material within 24 hours, " +
	"test yourself instead of rereading, and study in short focused sessions rather than marathons. " +
	"Ask me about study styles, stress, or building a course roadmap for more specific help."

const supportDisclaimer = "NOVA offers study coaching, not medical or psychological care. " +
	"If you are struggling seriously, please reach out to a counselor or a professional service."

// styleByAnswer maps a dominant quiz option to a learning style profile.
var styleByAnswer = map[string]domain.StudyStyleResult{
	"A": {
		Style:     "Visual",
		Strengths: []string{"Remembers diagrams and charts easily", "Strong spatial memory", "Quick to spot patterns in material"},
		Recommendations: []string{
			"Convert notes into mind maps and sketches",
			"Use color coding for different concepts",
			"Watch video explanations before reading the textbook",
		},
		Summary: "You process information best when you can see it. Build your notes around images, not sentences.",
	},
	"B": {
		Style:     "Auditory",
		Strengths: []string{"Retains spoken explanations well", "Learns effectively in discussions", "Good verbal recall"},
		Recommendations: []string{
			"Read your notes out loud when revising",
			"Join or form a study group",
			"Record summaries and listen back during commutes",
		},
		Summary: "You learn by hearing and talking through material. Make sound part of every study session.",
	},
	"C": {
		Style:     "Reading/Writing",
		Strengths: []string{"Comfortable with dense text", "Writes clear structured notes", "Strong at essay-style answers"},
		Recommendations: []string{
			"Rewrite key ideas in your own words",
			"Turn diagrams and lectures into written summaries",
			"Use practice questions that require written answers",
		},
		Summary: "Text is your medium. Summarizing and rewriting is how material sticks for you.",
	},
	"D": {
		Style:     "Kinesthetic",
		Strengths: []string{"Learns fast from doing", "Good practical intuition", "Stays engaged in active tasks"},
		Recommendations: []string{
			"Work through exercises before reading theory",
			"Use flashcards you can physically sort",
			"Take walking breaks and recall material while moving",
		},
		Summary: "You learn through action. Favor labs, exercises, and anything hands-on over passive reading.",
	},
}

var mockStress = domain.StressResult{
	Level: "Medium",
	Drivers: []string{
		"Irregular sleep schedule",
		"Long uninterrupted study sessions",
		"Little time reserved for recovery",
	},
	Suggestions: []string{
		"Keep a consistent sleep and wake time, even on weekends",
		"Split study time into focused blocks with real breaks",
		"Schedule at least two exercise sessions per week",
		"Write down tomorrow's three priorities before ending the day",
	},
}

var mockRoadmapTopics = [][]string{
	{"Course overview", "Core terminology"},
	{"Fundamental concepts", "First worked examples"},
	{"Intermediate topics", "Common pitfalls"},
	{"Advanced topics", "Connections between chapters"},
	{"Practice problems", "Past exam questions"},
	{"Revision", "Mock exam under time pressure"},
}

var mockRoadmapActivities = [][]string{
	{"Skim the full syllabus", "Set up a notes structure"},
	{"Read core chapters", "Solve introductory exercises"},
	{"Summarize each topic in one page", "Form a study group session"},
	{"Teach one topic to someone else", "Attempt harder exercises"},
	{"Time-boxed problem solving", "Review mistakes from exercises"},
	{"Full revision pass", "Simulate the exam"},
}

var mockImage = domain.ImageAnalyzeResult{
	Labels: []domain.ImageLabel{
		{Name: "study notes", Confidence: 0.91},
		{Name: "handwritten text", Confidence: 0.84},
		{Name: "diagram", Confidence: 0.62},
	},
	Summary: "The image appears to contain study material with notes and a diagram. " +
		"Consider restructuring it into a summary sheet with the key formulas highlighted.",
}

// StudyStyle returns the canned profile for the dominant quiz answer.
func (MockGenerator) StudyStyle(in domain.StudyStyleInput) *domain.StudyStyleResult {
	counts := map[string]int{}
	for _, a := range in.Answers {
		counts[strings.ToUpper(strings.TrimSpace(a))]++
	}

	// Deterministic tie-break: fixed option order, not map order.
	dominant := "A"
	best := -1
	for _, option := range []string{"A", "B", "C", "D"} {
		if counts[option] > best {
			dominant = option
			best = counts[option]
		}
	}

	result := styleByAnswer[dominant]
	return &result
}

// Stress returns the static fallback assessment.
func (MockGenerator) Stress(domain.StressInput) *domain.StressResult {
	result := mockStress
	return &result
}

// Roadmap builds a deterministic week-by-week plan from the canned topic
// tables, sized to the requested duration.
func (MockGenerator) Roadmap(in domain.RoadmapInput) *domain.RoadmapResult {
	weeks := in.Weeks
	if weeks <= 0 {
		weeks = 4
	}

	result := &domain.RoadmapResult{}
	for w := 1; w <= weeks; w++ {
		idx := (w - 1) % len(mockRoadmapTopics)
		result.Weeks = append(result.Weeks, domain.RoadmapWeek{
			Week:       w,
			Topics:     append([]string(nil), mockRoadmapTopics[idx]...),
			Activities: append([]string(nil), mockRoadmapActivities[idx]...),
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", in.CourseName)
	for _, week := range result.Weeks {
		fmt.Fprintf(&sb, "  Week %d\n", week.Week)
		for _, topic := range week.Topics {
			fmt.Fprintf(&sb, "    - %s\n", topic)
		}
	}
	result.Mindmap = sb.String()

	return result
}

// Chat selects a canned answer via shallow keyword matching on the lowered
// message. Topic order in chatTopics is the fixed precedence.
func (MockGenerator) Chat(in domain.MessageInput) *domain.ChatResult {
	lowered := strings.ToLower(in.Message)
	for _, topic := range chatTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lowered, kw) {
				return &domain.ChatResult{Answer: topic.answer}
			}
		}
	}
	return &domain.ChatResult{Answer: genericChatAnswer}
}

// Support reuses the chat keyword dispatch for topical relevance and wraps
// the answer in the coaching framing with the fixed disclaimer.
func (m MockGenerator) Support(in domain.MessageInput) *domain.SupportResult {
	chat := m.Chat(in)
	return &domain.SupportResult{
		Response: "Thank you for sharing this. " + chat.Answer +
			" Remember that one rough week does not define your semester.",
		Disclaimer: supportDisclaimer,
	}
}

// Image returns the static fallback labeling result.
func (MockGenerator) Image(domain.ImageInput) *domain.ImageAnalyzeResult {
	result := mockImage
	result.Labels = append([]domain.ImageLabel(nil), mockImage.Labels...)
	return &result
}
