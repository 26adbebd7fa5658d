// ABOUTME: Tests for the per-handler string extraction helpers
// ABOUTME: Covers contact info, amounts, and technical detail extraction

package handler

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContact(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		found bool
		check func(t *testing.T, c Contact)
	}{
		{
			name:  "email",
			text:  "my address is ada@example.com thanks",
			found: true,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "ada@example.com", c.Email)
			},
		},
		{
			name:  "phone",
			text:  "you can reach me at +1 (555) 123-4567",
			found: true,
			check: func(t *testing.T, c Contact) {
				assert.NotEmpty(t, c.Phone)
				assert.Empty(t, c.Email)
			},
		},
		{
			name:  "order number",
			text:  "it was order ord-1001",
			found: true,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "ORD-1001", c.OrderNumber)
			},
		},
		{
			name:  "nothing usable",
			text:  "I don't remember any of that",
			found: false,
		},
		{
			name:  "email wins over digits inside it",
			text:  "use ada1234567@example.com",
			found: true,
			check: func(t *testing.T, c Contact) {
				assert.Equal(t, "ada1234567@example.com", c.Email)
				assert.Empty(t, c.Phone)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ExtractContact(tt.text)
			require.Equal(t, tt.found, ok)
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestTechnical_ExtractDetails(t *testing.T) {
	h := NewTechnical(&stubGenerator{reply: "ok"}, slog.Default())

	t.Run("error messages and problem type", func(t *testing.T) {
		d := h.ExtractDetails(`I get "a weird error about permissions" and the network is down`)
		assert.NotEmpty(t, d.ErrorMessages)
		assert.Equal(t, "connection", d.ProblemType)
	})

	t.Run("urgency", func(t *testing.T) {
		d := h.ExtractDetails("this is urgent, production is broken")
		assert.Equal(t, "high", d.Urgency)
	})

	t.Run("plain text", func(t *testing.T) {
		d := h.ExtractDetails("how do I change my wallpaper")
		assert.Empty(t, d.ErrorMessages)
		assert.Empty(t, d.ProblemType)
		assert.Equal(t, "normal", d.Urgency)
	})
}

func TestBilling_ExtractDetails(t *testing.T) {
	h := NewBilling(&stubGenerator{reply: "ok"}, slog.Default())

	t.Run("dollar amount", func(t *testing.T) {
		d := h.ExtractDetails("I was charged $120.50 twice")
		assert.Equal(t, "120.50", d.Amount)
	})

	t.Run("spelled out amount", func(t *testing.T) {
		d := h.ExtractDetails("they took 30 dollars from me")
		assert.Equal(t, "30", d.Amount)
	})

	t.Run("payment method and urgency", func(t *testing.T) {
		d := h.ExtractDetails("there is an unauthorized paypal charge")
		assert.Equal(t, "paypal", d.PaymentMethod)
		assert.Equal(t, "high", d.Urgency)
	})
}

func TestEscalation_Categorize(t *testing.T) {
	h := NewEscalation(&stubGenerator{reply: "ok"}, slog.Default())

	tests := []struct {
		text     string
		category string
	}{
		{"this is urgent and critical", "urgent_technical"},
		{"I have a complaint about terrible service", "customer_complaint"},
		{"there is fraud on my account", "complex_billing"},
		{"let me talk to a real person", "human_request"},
		{"just checking in", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			category, _ := h.Categorize(tt.text)
			assert.Equal(t, tt.category, category)
		})
	}
}
