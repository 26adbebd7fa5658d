// ABOUTME: In-process store of conversation states with per-user locking
// ABOUTME: Acquire serializes same-user access without blocking other users

package conversation

import (
	"log/slog"
	"sync"
	"time"
)

type record struct {
	mu    sync.Mutex
	state State
}

// Store holds one State per user. The outer mutex guards only the map;
// each record carries its own lock so slow work for one user never blocks
// another.
type Store struct {
	mu      sync.Mutex
	records map[string]*record
	logger  *slog.Logger
}

// NewStore creates an empty conversation store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		records: make(map[string]*record),
		logger:  logger.With("component", "conversation"),
	}
}

// Acquire returns the user's state with its lock held, creating the record
// on first contact. The caller must invoke the release function when done
// mutating; holding it across slow calls blocks only this user.
func (s *Store) Acquire(userID string) (*State, func()) {
	s.mu.Lock()
	r, ok := s.records[userID]
	if !ok {
		r = &record{state: State{
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}}
		s.records[userID] = r
		s.logger.Debug("conversation state created", "user_id", userID)
	}
	s.mu.Unlock()

	r.mu.Lock()
	return &r.state, r.mu.Unlock
}

// Snapshot returns a copy of the user's state. The second return is false
// when the user has no conversation yet.
func (s *Store) Snapshot(userID string) (State, bool) {
	s.mu.Lock()
	r, ok := s.records[userID]
	s.mu.Unlock()
	if !ok {
		return State{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.state
	snap.History = append([]Transition(nil), r.state.History...)
	return snap, true
}

// Clear removes the user's state. Returns false when none existed.
func (s *Store) Clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; !ok {
		return false
	}
	delete(s.records, userID)
	s.logger.Info("conversation state cleared", "user_id", userID)
	return true
}

// Count returns the number of active conversation states.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
