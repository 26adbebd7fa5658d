// ABOUTME: Package documentation for the handler package
// ABOUTME: Describes the handler contract, confidence scoring, and the registry

// Package handler contains the specialized message handlers and their
// shared contract.
//
// A Handler scores raw customer text with a pure, deterministic Confidence
// function and produces replies with Process. Confidence uses a keyword
// ladder: three or more hits from the handler's keyword set score 0.95,
// two score 0.85, one scores 0.70, and none falls back to a per-handler
// baseline. The general handler inverts the scheme, scoring itself low
// when another handler's vocabulary dominates the text.
//
// Process never propagates collaborator failures. A backend outage
// degrades to a templated apology reply and any other failure becomes a
// confidence-zero reply carrying the error in metadata, which the router
// treats as a fallback signal.
//
// Handlers are stateless apart from a bounded rolling transcript kept for
// status reporting and context. The Registry holds the fixed set of
// handlers in registration order; iteration order is stable so routing
// stays deterministic.
package handler
