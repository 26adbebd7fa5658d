// ABOUTME: Bounded rolling transcript shared by all handlers
// ABOUTME: Keeps the most recent exchanges for status reporting and context

package handler

import (
	"sync"
	"time"
)

// transcriptLimit bounds memory per handler regardless of traffic.
const transcriptLimit = 10

// TranscriptProvider is implemented by handlers that keep a rolling
// transcript, which is all of the built-in ones.
type TranscriptProvider interface {
	Transcript() *Transcript
}

// Entry is one recorded exchange.
type Entry struct {
	Timestamp time.Time
	UserID    string
	Query     string
	Response  string
	Handler   Kind
}

// Transcript is a bounded, concurrency-safe rolling log of the most recent
// exchanges a handler has processed.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Record appends an exchange, evicting the oldest entry past the limit.
func (t *Transcript) Record(kind Kind, userID, query, response string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Entry{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Query:     query,
		Response:  response,
		Handler:   kind,
	})
	if len(t.entries) > transcriptLimit {
		t.entries = t.entries[len(t.entries)-transcriptLimit:]
	}
}

// Len returns the number of retained entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// LastActivity returns the timestamp of the most recent entry, or the zero
// time when the transcript is empty.
func (t *Transcript) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return time.Time{}
	}
	return t.entries[len(t.entries)-1].Timestamp
}

// PurgeUser drops every entry recorded for the given user.
func (t *Transcript) PurgeUser(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	t.entries = kept
}
