// ABOUTME: Routing decision engine mapping text plus conversation state to a handler
// ABOUTME: Pure and deterministic; all state mutation stays with the orchestrator

package router

import (
	"log/slog"
	"strings"

	"github.com/Partha-CreoIT/customer-support-agent/internal/config"
	"github.com/Partha-CreoIT/customer-support-agent/internal/conversation"
	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
)

// Action tells the orchestrator what to do with the decision.
type Action string

const (
	// ActionProcess runs the selected handler's Process.
	ActionProcess Action = "process"
	// ActionPromptContact opens the contact-info sub-dialog.
	ActionPromptContact Action = "prompt_contact"
	// ActionRepromptContact repeats the prompt after a failed extraction.
	ActionRepromptContact Action = "reprompt_contact"
	// ActionResolveContact resolves the order lookup with extracted contact.
	ActionResolveContact Action = "resolve_contact"
)

// Decision is the routing outcome for one message.
type Decision struct {
	Action     Action
	Kind       handler.Kind
	Confidence float64
	Contact    handler.Contact
	Forced     bool
	Reason     string
}

// escalationTriggers force-routes regardless of confidence scoring.
var escalationTriggers = []string{"escalate", "supervisor", "human", "manager", "urgent"}

// lookupIntents open the order-lookup sub-dialog before any scoring runs.
var lookupIntents = []string{
	"check my order", "my orders", "my order", "order status",
	"track my order", "where is my order", "look up my order",
}

// Router turns raw text and conversation state into a Decision.
type Router struct {
	registry *handler.Registry
	policy   config.RoutingConfig
	logger   *slog.Logger
}

// New creates a router over the given registry and policy.
func New(registry *handler.Registry, policy config.RoutingConfig, logger *slog.Logger) *Router {
	return &Router{
		registry: registry,
		policy:   policy,
		logger:   logger.With("component", "router"),
	}
}

// Select decides how to handle the message. It reads but never mutates the
// state; the orchestrator applies the resulting transitions.
func (r *Router) Select(text string, state *conversation.State) Decision {
	lower := strings.ToLower(text)

	// Escalation trigger phrases win over everything, including a pending
	// sub-dialog, which counts as abandoned.
	for _, trigger := range escalationTriggers {
		if strings.Contains(lower, trigger) {
			return Decision{
				Action:     ActionProcess,
				Kind:       handler.KindEscalation,
				Confidence: r.registry.Get(handler.KindEscalation).Confidence(text),
				Forced:     true,
				Reason:     "escalation_keyword",
			}
		}
	}

	if state.Pending == conversation.PendingContactInfo {
		if contact, ok := handler.ExtractContact(text); ok {
			return Decision{
				Action:     ActionResolveContact,
				Kind:       handler.KindOrders,
				Confidence: 0.95,
				Contact:    contact,
			}
		}
		return Decision{
			Action: ActionRepromptContact,
			Kind:   handler.KindOrders,
			Reason: "contact_extraction_failed",
		}
	}

	// Lookup intent preempts confidence scoring. When the trigger message
	// already carries usable contact info the sub-dialog is skipped.
	for _, intent := range lookupIntents {
		if strings.Contains(lower, intent) {
			if contact, ok := handler.ExtractContact(text); ok {
				return Decision{
					Action:     ActionResolveContact,
					Kind:       handler.KindOrders,
					Confidence: 0.95,
					Contact:    contact,
				}
			}
			return Decision{
				Action: ActionPromptContact,
				Kind:   handler.KindOrders,
				Reason: "lookup_intent",
			}
		}
	}

	kind, confidence := r.score(text, state)

	// Post-selection overrides.
	if kind != handler.KindEscalation {
		if confidence < r.policy.EscalationConfidence {
			return Decision{
				Action:     ActionProcess,
				Kind:       handler.KindEscalation,
				Confidence: confidence,
				Forced:     true,
				Reason:     "low_confidence",
			}
		}
		if kind == state.CurrentHandler && state.SameHandlerTurns >= r.policy.MaxTurnsSameHandler {
			return Decision{
				Action:     ActionProcess,
				Kind:       handler.KindEscalation,
				Confidence: confidence,
				Forced:     true,
				Reason:     "same_handler_ceiling",
			}
		}
	}

	return Decision{
		Action:     ActionProcess,
		Kind:       kind,
		Confidence: confidence,
	}
}

// score runs confidence scoring across the registry. Strictly-greater
// comparison resolves ties to the earlier registered handler, and the
// previous turn's handler is kept when it scores within the stickiness
// ratio of the best.
func (r *Router) score(text string, state *conversation.State) (handler.Kind, float64) {
	var (
		best     handler.Kind
		bestConf float64
		scores   = make(map[handler.Kind]float64, r.registry.Len())
	)

	for i, h := range r.registry.All() {
		conf := h.Confidence(text)
		scores[h.Kind()] = conf
		if i == 0 || conf > bestConf {
			best = h.Kind()
			bestConf = conf
		}
	}

	if sticky := state.CurrentHandler; sticky != "" && sticky != best {
		if stickyConf, ok := scores[sticky]; ok && stickyConf > bestConf*r.policy.StickinessRatio {
			r.logger.Debug("stickiness kept previous handler",
				"sticky", sticky, "sticky_confidence", stickyConf,
				"best", best, "best_confidence", bestConf)
			return sticky, stickyConf
		}
	}

	return best, bestConf
}
