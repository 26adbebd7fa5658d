// ABOUTME: Package documentation for the generation backend client
// ABOUTME: Names the error contract callers rely on

// Package genai wraps the HTTP text-generation backend behind the
// Generator interface. Network failures, 5xx responses, and quota errors
// surface as ErrUnavailable so handlers can degrade to templated replies.
package genai
