// ABOUTME: Package documentation for the order store
// ABOUTME: Describes the lookup contract and SQLite backing

// Package store persists customer orders in SQLite.
//
// The OrderStore interface is the narrow lookup contract the rest of the
// system depends on: find one order by number, or all orders for an email.
// A missing order number returns ErrNotFound; an email with no orders is a
// normal empty result. The SQLite implementation creates its schema on
// startup and runs in WAL mode.
package store
