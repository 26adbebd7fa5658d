// ABOUTME: Tests for the conversation store and state transitions
// ABOUTME: Covers lazy creation, locking under concurrency, and sub-dialog lifecycle

package conversation

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Partha-CreoIT/customer-support-agent/internal/handler"
)

func TestStore_Acquire(t *testing.T) {
	s := NewStore(slog.Default())

	t.Run("creates state lazily", func(t *testing.T) {
		assert.Equal(t, 0, s.Count())

		state, release := s.Acquire("user-1")
		assert.Equal(t, "user-1", state.UserID)
		assert.False(t, state.CreatedAt.IsZero())
		release()

		assert.Equal(t, 1, s.Count())
	})

	t.Run("same user gets the same record", func(t *testing.T) {
		state, release := s.Acquire("user-1")
		state.RecordTurn(handler.KindGeneral, "hello", "hi")
		release()

		state, release = s.Acquire("user-1")
		assert.Equal(t, 1, state.TurnCount)
		release()
	})
}

func TestStore_ConcurrentTurns(t *testing.T) {
	s := NewStore(slog.Default())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, release := s.Acquire("user-1")
			state.RecordTurn(handler.KindGeneral, "msg", "reply")
			release()
		}()
	}
	wg.Wait()

	snap, ok := s.Snapshot("user-1")
	require.True(t, ok)
	assert.Equal(t, n, snap.TurnCount)
	assert.Len(t, snap.History, n)
}

func TestStore_Snapshot(t *testing.T) {
	s := NewStore(slog.Default())

	t.Run("missing user", func(t *testing.T) {
		_, ok := s.Snapshot("nobody")
		assert.False(t, ok)
	})

	t.Run("history is a copy", func(t *testing.T) {
		state, release := s.Acquire("user-1")
		state.RecordTurn(handler.KindBilling, "bill", "ok")
		release()

		snap, ok := s.Snapshot("user-1")
		require.True(t, ok)
		snap.History[0].Query = "mutated"

		again, _ := s.Snapshot("user-1")
		assert.Equal(t, "bill", again.History[0].Query)
	})
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(slog.Default())

	_, release := s.Acquire("user-1")
	release()

	assert.True(t, s.Clear("user-1"))
	assert.False(t, s.Clear("user-1"))
	assert.Equal(t, 0, s.Count())
}

func TestState_RecordTurn(t *testing.T) {
	var state State

	state.RecordTurn(handler.KindTechnical, "q1", "r1")
	assert.Equal(t, 1, state.SameHandlerTurns)

	state.RecordTurn(handler.KindTechnical, "q2", "r2")
	assert.Equal(t, 2, state.SameHandlerTurns)

	state.RecordTurn(handler.KindBilling, "q3", "r3")
	assert.Equal(t, 1, state.SameHandlerTurns)
	assert.Equal(t, handler.KindBilling, state.CurrentHandler)
	assert.Equal(t, 3, state.TurnCount)
	assert.Equal(t,
		[]handler.Kind{handler.KindTechnical, handler.KindTechnical, handler.KindBilling},
		state.HandlerHistory())
}

func TestState_ContactDialog(t *testing.T) {
	var state State

	assert.Equal(t, PendingNone, state.Pending)

	state.BeginContactDialog()
	assert.Equal(t, PendingContactInfo, state.Pending)

	assert.Equal(t, 1, state.ContactRetry())
	assert.Equal(t, 2, state.ContactRetry())

	state.EndContactDialog()
	assert.Equal(t, PendingNone, state.Pending)
	assert.Equal(t, 0, state.ContactRetries)
}
