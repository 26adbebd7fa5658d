// ABOUTME: Wire frame types exchanged with websocket clients
// ABOUTME: Every outbound frame carries a timestamp

package session

import (
	"time"

	"github.com/Partha-CreoIT/customer-support-agent/internal/orchestrator"
)

// inboundFrame is the union of everything a client may send. Type selects
// which fields matter.
type inboundFrame struct {
	Type       string `json:"type"`
	Content    string `json:"content"`
	UserID     string `json:"user_id"`
	StatusType string `json:"status_type"`
	Action     string `json:"action"`
}

type welcomeFrame struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	ClientID  string    `json:"client_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

type messageFrame struct {
	Type       string         `json:"type"`
	Content    string         `json:"content"`
	AgentType  string         `json:"agent_type"`
	Confidence float64        `json:"confidence"`
	Timestamp  time.Time      `json:"timestamp"`
	Metadata   map[string]any `json:"metadata"`
}

type statusFrame struct {
	Type       string    `json:"type"`
	StatusType string    `json:"status_type"`
	Data       any       `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

type sessionFrame struct {
	Type      string                    `json:"type"`
	Action    string                    `json:"action"`
	Data      *orchestrator.SessionInfo `json:"data,omitempty"`
	Message   string                    `json:"message,omitempty"`
	Timestamp time.Time                 `json:"timestamp"`
}

type errorFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func newErrorFrame(message string) errorFrame {
	return errorFrame{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
