// ABOUTME: Escalation handler for complaints, urgent cases, and human handoffs
// ABOUTME: Categorizes the escalation and acknowledges with a resolution window

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Partha-CreoIT/customer-support-agent/internal/genai"
)

const escalationPrompt = "You are a senior escalation specialist. Acknowledge " +
	"the customer's frustration, apologize where warranted, explain that their " +
	"case is being escalated, and give clear next steps with a timeline."

// escalationCategories maps a category to its trigger phrases and the window
// the customer is quoted. Slice ordering makes the first match deterministic.
var escalationCategories = []struct {
	name       string
	keywords   []string
	resolution string
}{
	{"urgent_technical", []string{"urgent", "emergency", "critical", "not working", "broken"}, "within 2-4 hours"},
	{"customer_complaint", []string{"complaint", "dissatisfied", "unhappy", "terrible", "worst"}, "within 24 hours"},
	{"complex_billing", []string{"fraud", "unauthorized", "dispute", "complex billing"}, "within 4-8 hours"},
	{"human_request", []string{"human", "real person", "speak to someone", "supervisor"}, "within 1-2 hours"},
}

// Escalation handles cases that need human attention.
type Escalation struct {
	gen        genai.Generator
	transcript *Transcript
	logger     *slog.Logger
}

// NewEscalation creates the escalation handler.
func NewEscalation(gen genai.Generator, logger *slog.Logger) *Escalation {
	return &Escalation{
		gen:        gen,
		transcript: NewTranscript(),
		logger:     logger.With("component", "handler.escalation"),
	}
}

func (h *Escalation) Kind() Kind { return KindEscalation }

// Transcript exposes the rolling transcript for status reporting.
func (h *Escalation) Transcript() *Transcript { return h.transcript }

func (h *Escalation) Confidence(text string) float64 {
	return ladderConfidence(countKeywords(text, escalationKeywords), 0.20)
}

// Categorize returns the escalation category and quoted resolution window
// for the text, or empty strings when no category matches.
func (h *Escalation) Categorize(text string) (category, resolution string) {
	lower := strings.ToLower(text)
	for _, c := range escalationCategories {
		if containsAny(lower, c.keywords...) {
			return c.name, c.resolution
		}
	}
	return "", ""
}

// Process acknowledges the escalation via the generation backend and attaches
// the category and resolution window as metadata.
func (h *Escalation) Process(ctx context.Context, text, userID string) (*Reply, error) {
	category, resolution := h.Categorize(text)

	prompt := fmt.Sprintf("%s\n\nCustomer: %s", escalationPrompt, text)
	if resolution != "" {
		prompt += fmt.Sprintf("\n\nQuote a resolution window of %s.", resolution)
	}

	generated, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, genai.ErrUnavailable) {
			// Escalations must still confirm the handoff when the backend is
			// down, so the degraded reply carries the commitment itself.
			h.logger.Warn("backend unavailable, sending static escalation reply", "user_id", userID)
			reply := newReply(KindEscalation, "I understand this requires "+
				"immediate attention. I am escalating your case to a human "+
				"supervisor now; someone will follow up with you shortly.", 0.5)
			reply.Metadata["fallback"] = true
			reply.Metadata["escalated"] = true
			h.transcript.Record(KindEscalation, userID, text, reply.Text)
			return reply, nil
		}
		h.logger.Error("generation failed", "user_id", userID, "error", err)
		return errorReply(KindEscalation, err), nil
	}

	reply := newReply(KindEscalation, generated, h.Confidence(text))
	reply.Metadata["escalated"] = true
	if category != "" {
		reply.Metadata["category"] = category
		reply.Metadata["estimated_resolution"] = resolution
	}

	h.transcript.Record(KindEscalation, userID, text, reply.Text)
	return reply, nil
}
