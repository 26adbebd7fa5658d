// ABOUTME: Immutable ordered registry of handlers, populated once at startup
// ABOUTME: Stable iteration order keeps routing deterministic

package handler

import (
	"errors"
	"fmt"
)

// ErrEmptyRegistry means no handlers were registered. This is the only
// handler-related condition fatal to startup.
var ErrEmptyRegistry = errors.New("handler registry is empty")

// Registry holds the fixed set of handlers. It is populated once at startup
// and never mutated afterwards, so reads need no locking.
type Registry struct {
	ordered []Handler
	byKind  map[Kind]Handler
}

// NewRegistry builds a registry from the given handlers. Registration order
// is preserved and becomes the tie-break order during routing.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	if len(handlers) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		ordered: make([]Handler, 0, len(handlers)),
		byKind:  make(map[Kind]Handler, len(handlers)),
	}
	for _, h := range handlers {
		if _, exists := r.byKind[h.Kind()]; exists {
			return nil, fmt.Errorf("duplicate handler kind %q", h.Kind())
		}
		r.ordered = append(r.ordered, h)
		r.byKind[h.Kind()] = h
	}
	return r, nil
}

// Get returns the handler for the kind, or nil when not registered.
func (r *Registry) Get(kind Kind) Handler {
	return r.byKind[kind]
}

// All returns the handlers in registration order. Callers must not modify
// the returned slice.
func (r *Registry) All() []Handler {
	return r.ordered
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, len(r.ordered))
	for i, h := range r.ordered {
		kinds[i] = h.Kind()
	}
	return kinds
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	return len(r.ordered)
}
