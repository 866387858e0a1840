package api

import (
	"fmt"
	"net/http"

	"github.com/novalabs/nova-server/internal/auth"
	"github.com/novalabs/nova-server/internal/domain"
)

// HandleStudyStyle runs the learning-style quiz analysis.
func (h *Handler) HandleStudyStyle(w http.ResponseWriter, r *http.Request) {
	var in domain.StudyStyleInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.pipeline.AnalyzeStudyStyle(r.Context(), in)
	h.saveHistory(r, domain.FeatureStudyStyle,
		fmt.Sprintf("Learning style quiz with %d answers", len(in.Answers)), result)
	JSON(w, http.StatusOK, result)
}

// HandleStress runs the lifestyle-survey stress assessment.
func (h *Handler) HandleStress(w http.ResponseWriter, r *http.Request) {
	var in domain.StressInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.pipeline.AssessStress(r.Context(), in)
	h.saveHistory(r, domain.FeatureStress,
		fmt.Sprintf("Lifestyle survey: %.1fh sleep, %.1fh study, workload %s",
			in.SleepHours, in.StudyHours, in.Workload), result)
	JSON(w, http.StatusOK, result)
}

// HandleRoadmap generates a week-by-week study plan.
func (h *Handler) HandleRoadmap(w http.ResponseWriter, r *http.Request) {
	var in domain.RoadmapInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.pipeline.GenerateRoadmap(r.Context(), in)
	h.saveHistory(r, domain.FeatureRoadmap,
		fmt.Sprintf("Roadmap for %s (%d weeks)", in.CourseName, in.Weeks), result)
	JSON(w, http.StatusOK, result)
}

// HandleChat answers a free-text message with recent-history context.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var in domain.MessageInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	result := h.pipeline.Chat(r.Context(), userID, in)
	h.saveHistory(r, domain.FeatureChat, in.Message, result)
	JSON(w, http.StatusOK, result)
}

// HandleSupport answers an emotional-support message.
func (h *Handler) HandleSupport(w http.ResponseWriter, r *http.Request) {
	var in domain.MessageInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.pipeline.Support(r.Context(), in)
	h.saveHistory(r, domain.FeatureSupport, in.Message, result)
	JSON(w, http.StatusOK, result)
}

// HandleImage labels and summarizes an uploaded study image.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	var in domain.ImageInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.pipeline.AnalyzeImage(r.Context(), in)
	prompt := in.Question
	if prompt == "" {
		prompt = "Image upload (" + in.MimeType + ")"
	}
	h.saveHistory(r, domain.FeatureImageAnalyze, prompt, result)
	JSON(w, http.StatusOK, result)
}
