// ABOUTME: Orchestration facade tying the router, handlers, and state together
// ABOUTME: Submit is the single operation; all state mutation happens here

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Partha-CreoIT/customer-support-agent/internal/config"
	"github.com/Partha-CreoIT/customer-support-agent/internal/conversation"
	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
	"github.com/Partha-CreoIT/customer-support-agent/internal/router"
)

// ErrSessionNotFound is returned for session queries about unknown users.
var ErrSessionNotFound = errors.New("session not found")

// errorMarker prefixes the original text on the single fallback retry.
const errorMarker = "Error occurred: "

const rephraseText = "I'm sorry, I didn't catch that. Could you rephrase " +
	"your question?"

// Orchestrator routes messages and owns all conversation state mutation.
type Orchestrator struct {
	registry *handler.Registry
	router   *router.Router
	states   *conversation.Store
	policy   config.RoutingConfig
	logger   *slog.Logger
}

// New creates an orchestrator over the given registry and routing policy.
func New(registry *handler.Registry, policy config.RoutingConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		router:   router.New(registry, policy, logger),
		states:   conversation.NewStore(logger),
		policy:   policy,
		logger:   logger.With("component", "orchestrator"),
	}
}

// Submit processes one customer message and returns one reply. Failures at
// any collaborator degrade to a reply; the error return is reserved for a
// missing handler, which indicates registry misconfiguration.
func (o *Orchestrator) Submit(ctx context.Context, text, userID string) (*handler.Reply, error) {
	if strings.TrimSpace(text) == "" {
		state, release := o.states.Acquire(userID)
		state.BumpTurn()
		release()

		reply := &handler.Reply{
			ID:        uuid.New().String(),
			Text:      rephraseText,
			Handler:   handler.KindGeneral,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]any{"input_error": true},
		}
		return reply, nil
	}

	state, release := o.states.Acquire(userID)
	decision := o.router.Select(text, state)

	// A forced route abandons any pending sub-dialog.
	if decision.Forced && state.Pending == conversation.PendingContactInfo {
		state.EndContactDialog()
		o.logger.Info("contact sub-dialog abandoned", "user_id", userID, "reason", decision.Reason)
	}

	switch decision.Action {
	case router.ActionPromptContact:
		state.BeginContactDialog()
		reply := o.ordersHandler().PromptReply()
		state.RecordTurn(handler.KindOrders, text, reply.Text)
		release()
		return reply, nil

	case router.ActionRepromptContact:
		retries := state.ContactRetry()
		if retries >= o.policy.ContactRetryCeiling {
			o.logger.Warn("contact sub-dialog likely abandoned",
				"user_id", userID, "retries", retries)
		}
		reply := o.ordersHandler().PromptReply()
		reply.Metadata["retries"] = retries
		state.RecordTurn(handler.KindOrders, text, reply.Text)
		release()
		return reply, nil

	case router.ActionResolveContact:
		state.EndContactDialog()
		release()

		reply, err := o.ordersHandler().Resolve(ctx, userID, decision.Contact)
		if err != nil {
			reply = o.retryGeneral(ctx, text, userID, err)
		}
		o.recordTurn(userID, text, reply)
		return reply, nil
	}

	h := o.registry.Get(decision.Kind)
	if h == nil {
		release()
		return nil, fmt.Errorf("no handler registered for kind %q", decision.Kind)
	}
	release()

	reply, err := h.Process(ctx, text, userID)
	if err != nil || isFailure(reply) {
		if err == nil {
			err = fmt.Errorf("handler %s failed: %v", decision.Kind, reply.Metadata["error"])
		}
		o.logger.Warn("handler failed, retrying against general",
			"user_id", userID, "handler", decision.Kind, "error", err)
		reply = o.retryGeneral(ctx, text, userID, err)
	}

	if decision.Forced {
		reply.Metadata["routing_reason"] = decision.Reason
	}

	o.recordTurn(userID, text, reply)
	return reply, nil
}

// retryGeneral is the sole retry policy: one attempt against the general
// handler with the original text behind the error marker. Whatever comes
// back is the final answer.
func (o *Orchestrator) retryGeneral(ctx context.Context, text, userID string, cause error) *handler.Reply {
	general := o.registry.Get(handler.KindGeneral)
	if general == nil {
		reply := &handler.Reply{
			ID:        uuid.New().String(),
			Text:      "I apologize, but I'm unable to process your request right now.",
			Handler:   handler.KindGeneral,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]any{"error": cause.Error()},
		}
		return reply
	}

	reply, err := general.Process(ctx, errorMarker+text, userID)
	if err != nil {
		reply = &handler.Reply{
			ID:        uuid.New().String(),
			Text:      "I apologize, but I'm unable to process your request right now.",
			Handler:   handler.KindGeneral,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]any{"error": err.Error()},
		}
	}
	reply.Metadata["fallback_from_error"] = cause.Error()
	return reply
}

func (o *Orchestrator) recordTurn(userID, text string, reply *handler.Reply) {
	state, release := o.states.Acquire(userID)
	state.RecordTurn(reply.Handler, text, reply.Text)
	release()
}

// isFailure reports whether a reply carries the handler-failure signal.
func isFailure(reply *handler.Reply) bool {
	if reply == nil {
		return true
	}
	_, hasErr := reply.Metadata["error"]
	return reply.Confidence == 0 && hasErr
}

// contactResolver is the slice of the orders handler the sub-dialog needs.
type contactResolver interface {
	PromptReply() *handler.Reply
	Resolve(ctx context.Context, userID string, contact handler.Contact) (*handler.Reply, error)
}

func (o *Orchestrator) ordersHandler() contactResolver {
	return o.registry.Get(handler.KindOrders).(contactResolver)
}
