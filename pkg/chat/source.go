package chat

import (
	"context"
	"sync"
)

// Deliver sends m on out unless ctx ends first.
func Deliver(ctx context.Context, out chan<- *Message, m *Message) bool {
	select {
	case out <- m:
		return true
	case <-ctx.Done():
		return false
	}
}

// Stream is an event channel fed from platform callbacks that may still
// fire while the subscription is closing.
type Stream struct {
	mu     sync.RWMutex
	closed bool
	ch     chan *Message
}

// NewStream creates an open stream.
func NewStream() *Stream {
	return &Stream{ch: make(chan *Message)}
}

// C returns the receive side of the stream.
func (s *Stream) C() <-chan *Message {
	return s.ch
}

// Emit delivers m unless the stream is closed or ctx ends first.
func (s *Stream) Emit(ctx context.Context, m *Message) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	return Deliver(ctx, s.ch, m)
}

// Close closes the channel. Emit calls blocked on a cancelled context
// must return before Close can proceed.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Allowed reports whether m passes a channel allow list using the same
// matching rules as AllowList.
func Allowed(ids []string, m *Message) bool {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[normalizeID(id)] = struct{}{}
	}
	return isAllowed(allowed, m)
}
