// ABOUTME: Core handler contract shared by all specialized handlers
// ABOUTME: Defines Kind, Reply, the Handler interface, and reply constructors

package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a handler variant. The set is closed and fixed at startup.
type Kind string

const (
	KindGeneral    Kind = "general"
	KindTechnical  Kind = "technical"
	KindBilling    Kind = "billing"
	KindEscalation Kind = "escalation"
	KindOrders     Kind = "orders"
)

// Reply is the immutable result of processing one customer message.
type Reply struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Confidence float64        `json:"confidence"`
	Handler    Kind           `json:"handler"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata"`
}

// Handler is the contract every specialized handler implements.
//
// Confidence is a pure function over the raw text; identical input yields
// identical output. Process may call the generation backend or the order
// store, and must not return an error for malformed input or collaborator
// failure. Collaborator outages degrade to an apology reply; other internal
// failures become a confidence-zero reply with the error in metadata.
type Handler interface {
	Kind() Kind
	Confidence(text string) float64
	Process(ctx context.Context, text, userID string) (*Reply, error)
}

func newReply(kind Kind, text string, confidence float64) *Reply {
	return &Reply{
		ID:         uuid.New().String(),
		Text:       text,
		Confidence: confidence,
		Handler:    kind,
		Timestamp:  time.Now().UTC(),
		Metadata:   make(map[string]any),
	}
}

// apologyText is the degraded reply when the generation backend is down.
const apologyText = "I apologize, but our support assistant is temporarily " +
	"unavailable. Please try again in a few moments, or ask for a supervisor " +
	"if your issue is urgent."

// fallbackReply is used when the generation backend is unavailable.
// Confidence stays moderate so the router does not treat the outage as a
// handler failure and retry.
func fallbackReply(kind Kind) *Reply {
	r := newReply(kind, apologyText, 0.5)
	r.Metadata["fallback"] = true
	return r
}

// errorReply signals handler failure to the router. Confidence zero plus the
// error annotation triggers the single retry against the general handler.
func errorReply(kind Kind, err error) *Reply {
	r := newReply(kind, "I apologize, but I encountered an error processing "+
		"your request. Please try again.", 0)
	r.Metadata["error"] = err.Error()
	return r
}
