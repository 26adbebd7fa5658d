// ABOUTME: Conversation state record and its transition bookkeeping
// ABOUTME: Tracks current handler, pending sub-dialog, turn counts, and history

package conversation

import (
	"time"

	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
)

// Pending names the sub-dialog a conversation is waiting on, if any.
type Pending string

const (
	PendingNone        Pending = ""
	PendingContactInfo Pending = "awaiting_contact_info"
)

// Transition is one history entry: which handler took a turn and when.
type Transition struct {
	Handler   handler.Kind `json:"handler"`
	Timestamp time.Time    `json:"timestamp"`
	Query     string       `json:"query"`
}

// State is the per-user conversation record. It is mutated only while the
// owning Store's per-user lock is held.
type State struct {
	UserID           string
	CurrentHandler   handler.Kind
	Pending          Pending
	TurnCount        int
	SameHandlerTurns int
	ContactRetries   int
	History          []Transition
	CreatedAt        time.Time
	LastActivity     time.Time
	LastReply        string
}

// RecordTurn appends a history entry for the handler that took this turn
// and updates the turn counters. Consecutive turns with the same handler
// accumulate in SameHandlerTurns; a handler change resets the streak.
func (s *State) RecordTurn(kind handler.Kind, query, replyText string) {
	now := time.Now().UTC()

	if s.CurrentHandler == kind {
		s.SameHandlerTurns++
	} else {
		s.SameHandlerTurns = 1
	}
	s.CurrentHandler = kind
	s.TurnCount++
	s.LastActivity = now
	s.LastReply = replyText
	s.History = append(s.History, Transition{
		Handler:   kind,
		Timestamp: now,
		Query:     query,
	})
}

// BumpTurn counts a turn that produced no routing decision, such as an
// empty message. Only the counter and activity time move.
func (s *State) BumpTurn() {
	s.TurnCount++
	s.LastActivity = time.Now().UTC()
}

// BeginContactDialog enters the awaiting-contact-info sub-dialog.
func (s *State) BeginContactDialog() {
	s.Pending = PendingContactInfo
	s.ContactRetries = 0
}

// ContactRetry counts a failed extraction attempt inside the sub-dialog and
// returns the new retry count.
func (s *State) ContactRetry() int {
	s.ContactRetries++
	return s.ContactRetries
}

// EndContactDialog leaves the sub-dialog, whether resolved or abandoned.
func (s *State) EndContactDialog() {
	s.Pending = PendingNone
	s.ContactRetries = 0
}

// HandlerHistory returns the kinds from the history in order.
func (s *State) HandlerHistory() []handler.Kind {
	kinds := make([]handler.Kind, len(s.History))
	for i, tr := range s.History {
		kinds[i] = tr.Handler
	}
	return kinds
}
