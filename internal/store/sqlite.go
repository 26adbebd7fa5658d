// ABOUTME: SQLite implementation of the OrderStore interface using modernc.org/sqlite
// ABOUTME: Provides order persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the OrderStore interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		// Ensure parent directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite order store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			customer_name TEXT NOT NULL,
			email TEXT NOT NULL,
			status TEXT NOT NULL,
			total_paid REAL NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'USD',
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_orders_email
			ON orders(email);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// FindOrderByNumber returns the order with the given order number.
// Returns ErrNotFound if no such order exists.
func (s *SQLiteStore) FindOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, order_number, customer_name, email, status, total_paid, currency, created_at
		FROM orders
		WHERE order_number = ?
	`, orderNumber)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying order %s: %w", orderNumber, err)
	}
	return order, nil
}

// FindOrdersByEmail returns all orders for the given customer email,
// newest first. An empty result is normal and returns an empty slice.
func (s *SQLiteStore) FindOrdersByEmail(ctx context.Context, email string) ([]*Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_number, customer_name, email, status, total_paid, currency, created_at
		FROM orders
		WHERE email = ? COLLATE NOCASE
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("querying orders for %s: %w", email, err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	s.logger.Debug("orders looked up by email", "email", email, "count", len(orders))
	return orders, nil
}

// InsertOrder stores an order. Used for seeding and tests.
func (s *SQLiteStore) InsertOrder(ctx context.Context, order *Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, customer_name, email, status, total_paid, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, order.ID, order.OrderNumber, order.CustomerName, order.Email,
		order.Status, order.TotalPaid, order.Currency, order.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("order %s already exists: %w", order.OrderNumber, err)
		}
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// CountOrders returns the total number of stored orders.
func (s *SQLiteStore) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanOrder.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*Order, error) {
	var o Order
	var createdAt string
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.Email,
		&o.Status, &o.TotalPaid, &o.Currency, &createdAt); err != nil {
		return nil, err
	}

	// SQLite may hand back either layout depending on how the value was written
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, createdAt); err == nil {
			o.CreatedAt = ts
			break
		}
	}
	return &o, nil
}
