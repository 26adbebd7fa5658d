// ABOUTME: Fixed keyword vocabularies and the shared confidence ladder
// ABOUTME: Keyword hits map onto a stepped confidence score per handler

package handler

import "strings"

var technicalKeywords = []string{
	"error", "bug", "crash", "not working", "broken", "issue", "problem",
	"technical", "software", "hardware", "installation", "update", "upgrade",
	"compatibility", "performance", "slow", "freeze", "hang", "crashes",
	"driver", "firmware", "configuration", "settings", "network", "connection",
	"login", "password", "authentication", "permission", "access", "security",
	"backup", "restore", "data", "file", "corrupt", "virus", "malware",
}

var billingKeywords = []string{
	"payment", "billing", "invoice", "charge", "cost", "price", "fee",
	"subscription", "refund", "credit", "discount", "promotion", "coupon",
	"bill", "account", "payment method", "credit card", "debit card",
	"paypal", "bank transfer", "wire transfer", "check", "money order",
	"overcharge", "double charge", "unauthorized charge", "fraud",
	"cancellation", "upgrade", "downgrade", "plan change", "renewal",
}

var escalationKeywords = []string{
	"manager", "supervisor", "human", "speak to someone", "real person",
	"complex", "urgent", "emergency", "complaint", "dissatisfied",
	"escalate", "escalation", "serious", "critical", "unresolved",
	"multiple attempts", "still not working", "frustrated", "angry",
	"unacceptable", "terrible service", "worst experience",
}

var orderKeywords = []string{
	"order", "orders", "delivery", "shipping", "shipped", "track",
	"tracking", "package", "purchase", "order status", "order number",
}

// routingSet is one entry of the general handler's routing table.
type routingSet struct {
	kind     Kind
	keywords []string
}

// routingTable holds the shorter per-domain vocabularies the general handler
// scores against when deciding whether to push a query away from itself.
// Slice order keeps recommendation ties deterministic.
var routingTable = []routingSet{
	{KindTechnical, []string{
		"error", "bug", "crash", "not working", "broken", "issue", "problem",
		"technical", "software", "hardware", "installation", "update",
		"upgrade", "compatibility", "performance", "slow", "freeze", "hang",
		"crashes",
	}},
	{KindBilling, []string{
		"payment", "billing", "invoice", "charge", "cost", "price", "fee",
		"subscription", "refund", "credit", "discount", "promotion", "coupon",
		"bill", "account", "payment method", "credit card", "debit card",
	}},
	{KindEscalation, []string{
		"manager", "supervisor", "human", "speak to someone", "real person",
		"complex", "urgent", "emergency", "complaint", "dissatisfied",
		"escalate", "escalation", "serious", "critical",
	}},
}

// countKeywords returns the number of keywords appearing in text.
// Matching is case-insensitive substring containment.
func countKeywords(text string, keywords []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// ladderConfidence maps a keyword hit count onto the stepped confidence
// scale shared by the specialized handlers.
func ladderConfidence(hits int, baseline float64) float64 {
	switch {
	case hits >= 3:
		return 0.95
	case hits == 2:
		return 0.85
	case hits == 1:
		return 0.70
	default:
		return baseline
	}
}
