package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps every event it receives and answers with Err.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// ObjectIDs lists the object ids received so far, in order.
func (h *CaptureHook) ObjectIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, len(h.Events))
	for i, event := range h.Events {
		ids[i] = event.ObjectID
	}
	return ids
}
