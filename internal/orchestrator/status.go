// ABOUTME: Aggregate status, session queries, and session clearing
// ABOUTME: These read counters and snapshots; they never touch the router

package orchestrator

import (
	"time"

	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
)

// SystemStats is the system-wide status payload.
type SystemStats struct {
	TotalConversations int      `json:"total_conversations"`
	ActiveSessions     int      `json:"active_sessions"`
	AgentsCount        int      `json:"agents_count"`
	AgentTypes         []string `json:"agent_types"`
}

// AgentStatus is the per-handler status payload.
type AgentStatus struct {
	Active            bool       `json:"active"`
	ConversationCount int        `json:"conversation_count"`
	LastActivity      *time.Time `json:"last_activity"`
}

// SessionInfo is the per-user session payload.
type SessionInfo struct {
	UserID       string         `json:"user_id"`
	CreatedAt    time.Time      `json:"created_at"`
	QueryCount   int            `json:"query_count"`
	LastAgent    handler.Kind   `json:"last_agent"`
	LastActivity time.Time      `json:"last_activity"`
	AgentHistory []handler.Kind `json:"agent_history"`
}

// SystemStats reports aggregate counters across handlers and conversations.
func (o *Orchestrator) SystemStats() SystemStats {
	total := 0
	types := make([]string, 0, o.registry.Len())
	for _, h := range o.registry.All() {
		types = append(types, string(h.Kind()))
		if tp, ok := h.(handler.TranscriptProvider); ok {
			total += tp.Transcript().Len()
		}
	}

	return SystemStats{
		TotalConversations: total,
		ActiveSessions:     o.states.Count(),
		AgentsCount:        o.registry.Len(),
		AgentTypes:         types,
	}
}

// HandlerStatus reports per-handler activity keyed by kind.
func (o *Orchestrator) HandlerStatus() map[string]AgentStatus {
	status := make(map[string]AgentStatus, o.registry.Len())
	for _, h := range o.registry.All() {
		s := AgentStatus{Active: true}
		if tp, ok := h.(handler.TranscriptProvider); ok {
			s.ConversationCount = tp.Transcript().Len()
			if last := tp.Transcript().LastActivity(); !last.IsZero() {
				s.LastActivity = &last
			}
		}
		status[string(h.Kind())] = s
	}
	return status
}

// SessionInfo returns the session view for one user, or ErrSessionNotFound
// when the user has never spoken.
func (o *Orchestrator) SessionInfo(userID string) (SessionInfo, error) {
	snap, ok := o.states.Snapshot(userID)
	if !ok {
		return SessionInfo{}, ErrSessionNotFound
	}

	return SessionInfo{
		UserID:       userID,
		CreatedAt:    snap.CreatedAt,
		QueryCount:   snap.TurnCount,
		LastAgent:    snap.CurrentHandler,
		LastActivity: snap.LastActivity,
		AgentHistory: snap.HandlerHistory(),
	}, nil
}

// ClearSession removes the user's conversation state and purges that user
// from every handler's transcript. Returns false when no state existed.
func (o *Orchestrator) ClearSession(userID string) bool {
	cleared := o.states.Clear(userID)
	for _, h := range o.registry.All() {
		if tp, ok := h.(handler.TranscriptProvider); ok {
			tp.Transcript().PurgeUser(userID)
		}
	}
	return cleared
}
