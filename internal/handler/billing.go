// ABOUTME: Billing support handler with amount and payment-method extraction
// ABOUTME: Scores queries against the billing vocabulary and annotates specifics

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

const billingPrompt = "You are a billing support specialist. Help with " +
	"payments, refunds, subscriptions, and billing disputes. Explain charges " +
	"clearly, give specific timelines, and never ask for full card numbers."

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:dollars?|usd)`),
	regexp.MustCompile(`charged\s+\$?(\d+(?:\.\d{2})?)`),
}

// paymentMethods maps a canonical method name to the phrases that imply it.
// Slice ordering makes the first match deterministic.
var paymentMethods = []struct {
	name     string
	keywords []string
}{
	{"credit card", []string{"credit card", "visa", "mastercard", "amex", "discover"}},
	{"debit card", []string{"debit card", "debit"}},
	{"paypal", []string{"paypal", "pay pal"}},
	{"bank transfer", []string{"bank transfer", "wire transfer", "ach"}},
	{"check", []string{"check", "cheque"}},
}

// BillingDetails is the billing-specific information extracted from a query.
type BillingDetails struct {
	Amount        string
	PaymentMethod string
	Urgency       string
}

// Billing handles payment, refund, and subscription queries.
type Billing struct {
	gen        genai.Generator
	transcript *Transcript
	logger     *slog.Logger
}

// NewBilling creates the billing support handler.
func NewBilling(gen genai.Generator, logger *slog.Logger) *Billing {
	return &Billing{
		gen:        gen,
		transcript: NewTranscript(),
		logger:     logger.With("component", "handler.billing"),
	}
}

func (h *Billing) Kind() Kind { return KindBilling }

// Transcript exposes the rolling transcript for status reporting.
func (h *Billing) Transcript() *Transcript { return h.transcript }

func (h *Billing) Confidence(text string) float64 {
	return ladderConfidence(countKeywords(text, billingKeywords), 0.15)
}

// ExtractDetails pulls a mentioned amount, payment method, and urgency out
// of the raw text. Pure string analysis, no side effects.
func (h *Billing) ExtractDetails(text string) BillingDetails {
	lower := strings.ToLower(text)
	details := BillingDetails{Urgency: "normal"}

	for _, pattern := range amountPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			details.Amount = m[1]
			break
		}
	}

	for _, method := range paymentMethods {
		if containsAny(lower, method.keywords...) {
			details.PaymentMethod = method.name
			break
		}
	}

	if containsAny(lower, "urgent", "emergency", "fraud", "unauthorized", "dispute") {
		details.Urgency = "high"
	}

	return details
}

// Process answers the query via the generation backend, attaching extracted
// billing specifics as metadata.
func (h *Billing) Process(ctx context.Context, text, userID string) (*Reply, error) {
	details := h.ExtractDetails(text)

	prompt := fmt.Sprintf("%s\n\nCustomer: %s", billingPrompt, text)

	generated, err := h.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, genai.ErrUnavailable) {
			h.logger.Warn("backend unavailable, sending fallback reply", "user_id", userID)
			reply := fallbackReply(KindBilling)
			h.transcript.Record(KindBilling, userID, text, reply.Text)
			return reply, nil
		}
		h.logger.Error("generation failed", "user_id", userID, "error", err)
		return errorReply(KindBilling, err), nil
	}

	reply := newReply(KindBilling, generated, h.Confidence(text))
	if details.Amount != "" {
		reply.Metadata["amount_mentioned"] = details.Amount
	}
	if details.PaymentMethod != "" {
		reply.Metadata["payment_method"] = details.PaymentMethod
	}
	reply.Metadata["urgency"] = details.Urgency

	h.transcript.Record(KindBilling, userID, text, reply.Text)
	return reply, nil
}
