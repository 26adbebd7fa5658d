// ABOUTME: Order-lookup handler backed by the order store
// ABOUTME: Extracts contact info and order numbers, prompts when neither is present

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Partha-CreoIT/customer-support-agent/internal/store"
)

var (
	emailPattern       = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern       = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
	orderNumberPattern = regexp.MustCompile(`(?i)\b(ord-\d+)\b`)
)

// Contact is the lookup key extracted from customer text. At least one field
// is set when extraction succeeds.
type Contact struct {
	Email       string
	Phone       string
	OrderNumber string
}

// ExtractContact pulls an email address, phone number, or order number out of
// the text. The second return reports whether anything usable was found.
func ExtractContact(text string) (Contact, bool) {
	var c Contact
	if m := emailPattern.FindString(text); m != "" {
		c.Email = m
	}
	if m := orderNumberPattern.FindString(text); m != "" {
		c.OrderNumber = strings.ToUpper(m)
	}
	// Phone last so digit runs inside an email or order number do not
	// shadow a real phone number.
	if c.Email == "" && c.OrderNumber == "" {
		if m := phonePattern.FindString(text); m != "" {
			c.Phone = strings.TrimSpace(m)
		}
	}
	return c, c.Email != "" || c.Phone != "" || c.OrderNumber != ""
}

const contactPromptText = "I can help you look up your orders. Could you " +
	"share the email address on your account, or an order number?"

// Orders looks up customer orders against the order store.
type Orders struct {
	store      store.OrderStore
	transcript *Transcript
	logger     *slog.Logger
}

// NewOrders creates the order-lookup handler.
func NewOrders(st store.OrderStore, logger *slog.Logger) *Orders {
	return &Orders{
		store:      st,
		transcript: NewTranscript(),
		logger:     logger.With("component", "handler.orders"),
	}
}

func (h *Orders) Kind() Kind { return KindOrders }

// Transcript exposes the rolling transcript for status reporting.
func (h *Orders) Transcript() *Transcript { return h.transcript }

func (h *Orders) Confidence(text string) float64 {
	return ladderConfidence(countKeywords(text, orderKeywords), 0.15)
}

// PromptReply is the request for contact information that opens the
// order-lookup sub-dialog.
func (h *Orders) PromptReply() *Reply {
	r := newReply(KindOrders, contactPromptText, 0.9)
	r.Metadata["awaiting_contact"] = true
	return r
}

// Resolve answers the sub-dialog with the orders matching the extracted
// contact. Store outages degrade to an apology reply, never an error.
func (h *Orders) Resolve(ctx context.Context, userID string, contact Contact) (*Reply, error) {
	var (
		orders []*store.Order
		err    error
	)

	switch {
	case contact.OrderNumber != "":
		var order *store.Order
		order, err = h.store.FindOrderByNumber(ctx, contact.OrderNumber)
		if err == nil {
			orders = []*store.Order{order}
		} else if err == store.ErrNotFound {
			err = nil
		}
	case contact.Email != "":
		orders, err = h.store.FindOrdersByEmail(ctx, contact.Email)
	case contact.Phone != "":
		// The store is keyed by email and order number only.
		reply := newReply(KindOrders, "I'm sorry, I can't look up orders by "+
			"phone number yet. Could you share the email address on your "+
			"account instead?", 0.9)
		h.transcript.Record(KindOrders, userID, contact.Phone, reply.Text)
		return reply, nil
	}

	if err != nil {
		h.logger.Error("order lookup failed", "user_id", userID, "error", err)
		reply := fallbackReply(KindOrders)
		reply.Text = "I'm sorry, our order system is temporarily unavailable. " +
			"Please try again in a few minutes."
		h.transcript.Record(KindOrders, userID, contact.Email, reply.Text)
		return reply, nil
	}

	reply := newReply(KindOrders, formatOrders(orders), 0.95)
	reply.Metadata["order_count"] = len(orders)

	h.transcript.Record(KindOrders, userID, contact.Email+contact.OrderNumber, reply.Text)
	return reply, nil
}

// Process handles an order query outside the sub-dialog. With an order
// number or email already in the text it resolves directly; otherwise it
// asks for contact information.
func (h *Orders) Process(ctx context.Context, text, userID string) (*Reply, error) {
	if contact, ok := ExtractContact(text); ok {
		return h.Resolve(ctx, userID, contact)
	}

	reply := h.PromptReply()
	h.transcript.Record(KindOrders, userID, text, reply.Text)
	return reply, nil
}

func formatOrders(orders []*store.Order) string {
	if len(orders) == 0 {
		return "I couldn't find any orders for that contact information. " +
			"Please double-check the email or order number and try again."
	}

	var b strings.Builder
	if len(orders) == 1 {
		b.WriteString("I found 1 order for you:\n")
	} else {
		fmt.Fprintf(&b, "I found %d orders for you:\n", len(orders))
	}
	for _, o := range orders {
		fmt.Fprintf(&b, "- %s: %s, %.2f %s, placed %s\n",
			o.OrderNumber, o.Status, o.TotalPaid, o.Currency,
			o.CreatedAt.Format("Jan 2, 2006"))
	}
	return strings.TrimRight(b.String(), "\n")
}
