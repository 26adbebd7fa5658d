// ABOUTME: Package documentation for per-user conversation state
// ABOUTME: Describes ownership and the per-user locking discipline

// Package conversation tracks per-user routing state across turns.
//
// Each user has exactly one State, created lazily on first contact and
// retained until explicitly cleared. The Store serializes access per user:
// Acquire locks that user's record and hands back a release function, so
// two concurrent submits for the same user never interleave their
// read-modify-write of the turn counter, history, or pending sub-dialog.
// Different users never block each other.
//
// The orchestrator is the sole writer. Everything else reads snapshots.
package conversation
