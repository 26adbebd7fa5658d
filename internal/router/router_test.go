// ABOUTME: Tests for routing decisions using fixed-confidence stub handlers
// ABOUTME: Covers preemption, stickiness, overrides, and determinism

package router

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Partha-CreoIT/customer-support-agent/internal/config"
	"github.com/Partha-CreoIT/customer-support-agent/internal/conversation"
	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
)

type stubHandler struct {
	kind handler.Kind
	conf float64
}

func (s *stubHandler) Kind() handler.Kind          { return s.kind }
func (s *stubHandler) Confidence(_ string) float64 { return s.conf }
func (s *stubHandler) Process(_ context.Context, text, _ string) (*handler.Reply, error) {
	return &handler.Reply{Text: "stub: " + text, Handler: s.kind, Confidence: s.conf}, nil
}

func newTestRouter(t *testing.T, confs map[handler.Kind]float64) *Router {
	t.Helper()

	kinds := []handler.Kind{
		handler.KindGeneral, handler.KindTechnical, handler.KindBilling,
		handler.KindEscalation, handler.KindOrders,
	}
	handlers := make([]handler.Handler, 0, len(kinds))
	for _, k := range kinds {
		conf, ok := confs[k]
		if !ok {
			conf = 0.5
		}
		handlers = append(handlers, &stubHandler{kind: k, conf: conf})
	}

	registry, err := handler.NewRegistry(handlers...)
	require.NoError(t, err)
	return New(registry, config.DefaultRouting(), slog.Default())
}

func TestSelect_EscalationTriggers(t *testing.T) {
	r := newTestRouter(t, map[handler.Kind]float64{handler.KindTechnical: 0.95})

	t.Run("supervisor always routes to escalation", func(t *testing.T) {
		d := r.Select("my software crashes, get me a supervisor", &conversation.State{})
		assert.Equal(t, handler.KindEscalation, d.Kind)
		assert.True(t, d.Forced)
		assert.Equal(t, "escalation_keyword", d.Reason)
	})

	t.Run("trigger abandons a pending sub-dialog", func(t *testing.T) {
		state := &conversation.State{Pending: conversation.PendingContactInfo}
		d := r.Select("forget it, I want a human", state)
		assert.Equal(t, handler.KindEscalation, d.Kind)
		assert.True(t, d.Forced)
	})
}

func TestSelect_LookupIntent(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("opens the contact sub-dialog", func(t *testing.T) {
		d := r.Select("can you check my orders?", &conversation.State{})
		assert.Equal(t, ActionPromptContact, d.Action)
		assert.Equal(t, handler.KindOrders, d.Kind)
	})

	t.Run("resolves immediately when contact is in the trigger", func(t *testing.T) {
		d := r.Select("check my order status, email ada@example.com", &conversation.State{})
		assert.Equal(t, ActionResolveContact, d.Action)
		assert.Equal(t, "ada@example.com", d.Contact.Email)
	})
}

func TestSelect_ContactSubDialog(t *testing.T) {
	r := newTestRouter(t, nil)
	state := &conversation.State{Pending: conversation.PendingContactInfo}

	t.Run("reprompts when extraction fails", func(t *testing.T) {
		d := r.Select("I don't remember", state)
		assert.Equal(t, ActionRepromptContact, d.Action)
	})

	t.Run("resolves with an email", func(t *testing.T) {
		d := r.Select("it's ada@example.com", state)
		assert.Equal(t, ActionResolveContact, d.Action)
		assert.Equal(t, "ada@example.com", d.Contact.Email)
	})

	t.Run("resolves with an order number", func(t *testing.T) {
		d := r.Select("the order was ORD-1001", state)
		assert.Equal(t, ActionResolveContact, d.Action)
		assert.Equal(t, "ORD-1001", d.Contact.OrderNumber)
	})
}

func TestSelect_ConfidenceScoring(t *testing.T) {
	t.Run("highest confidence wins", func(t *testing.T) {
		r := newTestRouter(t, map[handler.Kind]float64{
			handler.KindGeneral:   0.4,
			handler.KindTechnical: 0.9,
			handler.KindBilling:   0.5,
		})
		d := r.Select("some message", &conversation.State{})
		assert.Equal(t, handler.KindTechnical, d.Kind)
		assert.InDelta(t, 0.9, d.Confidence, 1e-9)
	})

	t.Run("ties resolve to the earlier registered handler", func(t *testing.T) {
		r := newTestRouter(t, map[handler.Kind]float64{
			handler.KindGeneral:   0.7,
			handler.KindTechnical: 0.7,
			handler.KindBilling:   0.7,
		})
		d := r.Select("some message", &conversation.State{})
		assert.Equal(t, handler.KindGeneral, d.Kind)
	})
}

func TestSelect_Stickiness(t *testing.T) {
	r := newTestRouter(t, map[handler.Kind]float64{
		handler.KindTechnical: 0.7,
		handler.KindBilling:   0.75,
	})

	t.Run("previous handler within ratio is kept", func(t *testing.T) {
		state := &conversation.State{CurrentHandler: handler.KindTechnical, SameHandlerTurns: 1}
		d := r.Select("ambiguous follow-up", state)
		assert.Equal(t, handler.KindTechnical, d.Kind)
		assert.InDelta(t, 0.7, d.Confidence, 1e-9)
	})

	t.Run("previous handler outside ratio loses", func(t *testing.T) {
		weak := newTestRouter(t, map[handler.Kind]float64{
			handler.KindTechnical: 0.35,
			handler.KindBilling:   0.9,
		})
		state := &conversation.State{CurrentHandler: handler.KindTechnical, SameHandlerTurns: 1}
		d := weak.Select("clearly billing now", state)
		assert.Equal(t, handler.KindBilling, d.Kind)
	})
}

func TestSelect_Overrides(t *testing.T) {
	t.Run("low confidence escalates", func(t *testing.T) {
		r := newTestRouter(t, map[handler.Kind]float64{
			handler.KindGeneral:    0.2,
			handler.KindTechnical:  0.1,
			handler.KindBilling:    0.1,
			handler.KindEscalation: 0.1,
			handler.KindOrders:     0.1,
		})
		d := r.Select("mystery message", &conversation.State{})
		assert.Equal(t, handler.KindEscalation, d.Kind)
		assert.True(t, d.Forced)
		assert.Equal(t, "low_confidence", d.Reason)
	})

	t.Run("same-handler ceiling escalates", func(t *testing.T) {
		r := newTestRouter(t, map[handler.Kind]float64{handler.KindTechnical: 0.9})
		state := &conversation.State{
			CurrentHandler:   handler.KindTechnical,
			SameHandlerTurns: 5,
		}
		d := r.Select("still the same issue", state)
		assert.Equal(t, handler.KindEscalation, d.Kind)
		assert.Equal(t, "same_handler_ceiling", d.Reason)
	})

	t.Run("ceiling does not fire below the limit", func(t *testing.T) {
		r := newTestRouter(t, map[handler.Kind]float64{handler.KindTechnical: 0.9})
		state := &conversation.State{
			CurrentHandler:   handler.KindTechnical,
			SameHandlerTurns: 4,
		}
		d := r.Select("still the same issue", state)
		assert.Equal(t, handler.KindTechnical, d.Kind)
	})
}

func TestSelect_Deterministic(t *testing.T) {
	r := newTestRouter(t, map[handler.Kind]float64{
		handler.KindGeneral:   0.6,
		handler.KindTechnical: 0.6,
	})
	state := &conversation.State{CurrentHandler: handler.KindBilling, SameHandlerTurns: 2}

	first := r.Select("the same text every time", state)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Select("the same text every time", state))
	}
}
