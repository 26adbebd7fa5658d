// ABOUTME: Store interface and data types for order lookups
// ABOUTME: Defines the Order struct and the OrderStore interface used by handlers

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested order does not exist
var ErrNotFound = errors.New("not found")

// Order represents a customer order as stored in the order database.
type Order struct {
	ID           string
	OrderNumber  string
	CustomerName string
	Email        string
	Status       string
	TotalPaid    float64
	Currency     string
	CreatedAt    time.Time
}

// OrderStore defines the order-lookup collaborator interface.
// Absence of orders for an email is a normal empty result, not an error;
// FindOrderByNumber returns ErrNotFound for a missing order number.
type OrderStore interface {
	FindOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindOrdersByEmail(ctx context.Context, email string) ([]*Order, error)

	// Close releases any resources held by the store
	Close() error
}
