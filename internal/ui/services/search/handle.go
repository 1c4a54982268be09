package search

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle is the cancellation token of one provider request. The engine
// checks Cancelled before applying an outcome; Bind also propagates the
// cancellation to the provider through a context.
type Handle struct {
	ID    string
	Query string

	cancelled atomic.Bool
	mu        sync.Mutex
	cancel    context.CancelFunc
}

// NewHandle creates a handle for query with a fresh request id
func NewHandle(query string) *Handle {
	return &Handle{ID: uuid.NewString(), Query: query}
}

// Bind derives the context handed to the provider. Cancelling the handle
// cancels the context, also when Cancel happened first.
func (h *Handle) Bind(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	if h.cancelled.Load() {
		cancel()
	}
	return ctx
}

// Cancel marks the handle; safe to call more than once
func (h *Handle) Cancel() {
	if h.cancelled.Swap(true) {
		return
	}
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Cancelled reports whether Cancel was called
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}
