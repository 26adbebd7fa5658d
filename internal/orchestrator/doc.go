// ABOUTME: Package documentation for the orchestration facade
// ABOUTME: Describes the submit flow, locking, and the single-retry policy

// Package orchestrator owns the conversation state store and the handler
// registry behind a single operation: submit one message, get one reply.
//
// Submit acquires the user's state lock only for the routing decision and
// the post-reply bookkeeping; the handler call itself runs outside the lock
// so a slow backend stalls one user, not all of them. When a handler fails,
// the orchestrator retries exactly once against the general handler with the
// original text behind an error marker, and returns whatever that produces.
//
// Status, session, and clear operations read aggregate counters and never
// touch the router.
package orchestrator
