// ABOUTME: Tests for the SQLite order store
// ABOUTME: Covers lookups by number and email, empty results, and duplicates

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "orders.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func testOrder(number, email string) *Order {
	return &Order{
		ID:           "id-" + number,
		OrderNumber:  number,
		CustomerName: "Ada Lovelace",
		Email:        email,
		Status:       "shipped",
		TotalPaid:    49.99,
		Currency:     "USD",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestFindOrderByNumber(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-1001", "ada@example.com")))

	t.Run("found", func(t *testing.T) {
		order, err := s.FindOrderByNumber(ctx, "ORD-1001")
		require.NoError(t, err)
		assert.Equal(t, "ORD-1001", order.OrderNumber)
		assert.Equal(t, "ada@example.com", order.Email)
		assert.Equal(t, "shipped", order.Status)
		assert.InDelta(t, 49.99, order.TotalPaid, 0.001)
		assert.False(t, order.CreatedAt.IsZero())
	})

	t.Run("missing returns ErrNotFound", func(t *testing.T) {
		_, err := s.FindOrderByNumber(ctx, "ORD-9999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindOrdersByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-2001", "grace@example.com")))
	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-2002", "grace@example.com")))
	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-2003", "other@example.com")))

	t.Run("returns only matching orders", func(t *testing.T) {
		orders, err := s.FindOrdersByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.Len(t, orders, 2)
		for _, o := range orders {
			assert.Equal(t, "grace@example.com", o.Email)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		orders, err := s.FindOrdersByEmail(ctx, "GRACE@example.com")
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("no orders is a normal empty result", func(t *testing.T) {
		orders, err := s.FindOrdersByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestInsertOrder_Duplicate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-3001", "ada@example.com")))
	err := s.InsertOrder(ctx, testOrder("ORD-3001", "ada@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCountOrders(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	count, err := s.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-4001", "a@example.com")))
	require.NoError(t, s.InsertOrder(ctx, testOrder("ORD-4002", "b@example.com")))

	count, err = s.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.InsertOrder(context.Background(), testOrder("ORD-5001", "mem@example.com")))
	order, err := s.FindOrderByNumber(context.Background(), "ORD-5001")
	require.NoError(t, err)
	assert.Equal(t, "mem@example.com", order.Email)
}
