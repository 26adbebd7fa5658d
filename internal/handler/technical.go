// ABOUTME: Technical support handler with error-message and problem-type extraction
// ABOUTME: Scores queries against the technical vocabulary and annotates diagnostics

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Partha-CreoIT/customer-support-agent/internal/genai"
)

const technicalPrompt = "You are a technical support specialist. Diagnose the " +
	"customer's issue, ask for specific error messages when missing, and give " +
	"clear step-by-step troubleshooting guidance in plain language. Never ask " +
	"for passwords and warn before steps that risk data loss."

var errMessagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]*error[^"]*)"`),
	regexp.MustCompile(`error[:\s]+([^\n]+)`),
	regexp.MustCompile(`failed[:\s]+([^\n]+)`),
	regexp.MustCompile(`crash[:\s]+([^\n]+)`),
}

// TechnicalDetails is the diagnostic information extracted from a query.
type TechnicalDetails struct {
	ErrorMessages []string
	ProblemType   string
	Urgency       string
}

// Technical handles software and hardware problem reports.
type Technical struct {
	gen        genai.Generator
	transcript *Transcript
	logger     *slog.Logger
}

// NewTechnical creates the technical support handler.
func NewTechnical(gen genai.Generator, logger *slog.Logger) *Technical {
	return &Technical{
		gen:        gen,
		transcript: NewTranscript(),
		logger:     logger.With("component", "handler.technical"),
	}
}

func (h *Technical) Kind() Kind { return KindTechnical }

// Transcript exposes the rolling transcript for status reporting.
func (h *Technical) Transcript() *Transcript { return h.transcript }

func (h *Technical) Confidence(text string) float64 {
	return ladderConfidence(countKeywords(text, technicalKeywords), 0.20)
}

// ExtractDetails pulls error messages, a problem category, and an urgency
// level out of the raw text. Pure string analysis, no side effects.
func (h *Technical) ExtractDetails(text string) TechnicalDetails {
	lower := strings.ToLower(text)
	details := TechnicalDetails{Urgency: "normal"}

	for _, pattern := range errMessagePatterns {
		for _, m := range pattern.FindAllStringSubmatch(lower, -1) {
			details.ErrorMessages = append(details.ErrorMessages, strings.TrimSpace(m[1]))
		}
	}

	switch {
	case containsAny(lower, "slow", "performance", "lag"):
		details.ProblemType = "performance"
	case containsAny(lower, "connection", "network", "internet"):
		details.ProblemType = "connection"
	case containsAny(lower, "install", "setup", "configuration"):
		details.ProblemType = "installation"
	case containsAny(lower, "crash", "freeze", "hang"):
		details.ProblemType = "stability"
	}

	if containsAny(lower, "urgent", "emergency", "critical", "broken", "not working") {
		details.Urgency = "high"
	}

	return details
}

// Process answers the query via the generation backend, attaching extracted
// diagnostics as metadata.
func (h *Technical) Process(ctx context.Context, text, userID string) (*Reply, error) {
	details := h.ExtractDetails(text)

	prompt := fmt.Sprintf("%s\n\nCustomer: %s", technicalPrompt, text)
	if details.ProblemType != "" {
		prompt += fmt.Sprintf("\n\nLikely problem category: %s", details.ProblemType)
	}

	generated, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, genai.ErrUnavailable) {
			h.logger.Warn("backend unavailable, sending fallback reply", "user_id", userID)
			reply := fallbackReply(KindTechnical)
			h.transcript.Record(KindTechnical, userID, text, reply.Text)
			return reply, nil
		}
		h.logger.Error("generation failed", "user_id", userID, "error", err)
		return errorReply(KindTechnical, err), nil
	}

	reply := newReply(KindTechnical, generated, h.Confidence(text))
	if details.ProblemType != "" {
		reply.Metadata["problem_type"] = details.ProblemType
	}
	if len(details.ErrorMessages) > 0 {
		reply.Metadata["error_messages"] = details.ErrorMessages
	}
	reply.Metadata["urgency"] = details.Urgency

	h.transcript.Record(KindTechnical, userID, text, reply.Text)
	return reply, nil
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
