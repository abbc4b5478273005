package activity

import (
	"context"
	"sync"
)

// CaptureHook buffers the normalized access events a store emitted (reads,
// writes, denials) so tests can assert on verbs, paths, and levels. Set Err
// to exercise sink-failure paths.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify appends the normalized event and returns the configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}
