// ABOUTME: General support handler, the default for queries no specialist claims
// ABOUTME: Inverts keyword scoring to push specialized queries away from itself

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Partha-CreoIT/customer-support-agent/internal/genai"
)

const generalPrompt = "You are a professional customer support representative " +
	"for a technology company. Answer general inquiries about products, " +
	"services, policies, and account basics. Be friendly, concise, and " +
	"solution-oriented. If the question needs a technical, billing, or " +
	"escalation specialist, say you will connect the customer with one."

// General handles queries no specialized handler claims.
type General struct {
	gen        genai.Generator
	transcript *Transcript
	logger     *slog.Logger
}

// NewGeneral creates the general support handler.
func NewGeneral(gen genai.Generator, logger *slog.Logger) *General {
	return &General{
		gen:        gen,
		transcript: NewTranscript(),
		logger:     logger.With("component", "handler.general"),
	}
}

func (h *General) Kind() Kind { return KindGeneral }

// Transcript exposes the rolling transcript for status reporting.
func (h *General) Transcript() *Transcript { return h.transcript }

// Confidence inverts the usual keyword scheme. The text is scored against
// every specialist's routing vocabulary as a normalized density; a dominant
// specialist vocabulary drives the general score down.
func (h *General) Confidence(text string) float64 {
	maxScore := 0.0
	for _, set := range routingTable {
		score := float64(countKeywords(text, set.keywords)) / float64(len(set.keywords))
		if score > maxScore {
			maxScore = score
		}
	}

	switch {
	case maxScore > 0.3:
		return 0.2
	case maxScore > 0.1:
		return 0.5
	default:
		return 0.9
	}
}

// Recommend returns the specialist whose vocabulary best matches the text
// and that vocabulary's normalized density. A zero score means no specialist
// vocabulary matched at all.
func (h *General) Recommend(text string) (Kind, float64) {
	best := KindGeneral
	bestScore := 0.0
	for _, set := range routingTable {
		score := float64(countKeywords(text, set.keywords)) / float64(len(set.keywords))
		if score > bestScore {
			best = set.kind
			bestScore = score
		}
	}
	return best, bestScore
}

// Process answers the query via the generation backend.
func (h *General) Process(ctx context.Context, text, userID string) (*Reply, error) {
	prompt := fmt.Sprintf("%s\n\nCustomer: %s", generalPrompt, text)

	generated, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, genai.ErrUnavailable) {
			h.logger.Warn("backend unavailable, sending fallback reply", "user_id", userID)
			reply := fallbackReply(KindGeneral)
			h.transcript.Record(KindGeneral, userID, text, reply.Text)
			return reply, nil
		}
		h.logger.Error("generation failed", "user_id", userID, "error", err)
		return errorReply(KindGeneral, err), nil
	}

	reply := newReply(KindGeneral, generated, h.Confidence(text))
	if kind, score := h.Recommend(text); score > 0 {
		reply.Metadata["recommended_handler"] = string(kind)
		reply.Metadata["recommendation_score"] = score
	}

	h.transcript.Record(KindGeneral, userID, text, reply.Text)
	return reply, nil
}
