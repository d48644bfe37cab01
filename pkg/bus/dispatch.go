package bus

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"nekocmd/pkg/logger"
)

type metrics struct {
	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	errors    atomic.Uint64
}

func (m *metrics) snapshot() map[string]uint64 {
	return map[string]uint64{
		"published": m.published.Load(),
		"delivered": m.delivered.Load(),
		"dropped":   m.dropped.Load(),
		"errors":    m.errors.Load(),
	}
}

type registration struct {
	id      uint64
	handler Handler
}

// handlerSet holds the handlers of every topic in registration order.
type handlerSet struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string][]registration
}

func newHandlerSet() *handlerSet {
	return &handlerSet{topics: make(map[string][]registration)}
}

// add registers handler and returns a func removing just that handler.
func (s *handlerSet) add(topic string, handler Handler) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.topics[topic] = append(s.topics[topic], registration{id: id, handler: handler})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(topic, id) })
	}
}

func (s *handlerSet) remove(topic string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs := s.topics[topic]
	kept := make([]registration, 0, len(regs))
	for _, r := range regs {
		if r.id != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(s.topics, topic)
		return
	}
	s.topics[topic] = kept
}

func (s *handlerSet) clear(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.topics, topic)
}

func (s *handlerSet) get(topic string) []Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs := s.topics[topic]
	out := make([]Handler, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.handler)
	}
	return out
}

// dispatch runs the handlers registered for topic in registration order.
func dispatch(
	ctx context.Context,
	log *logger.Logger,
	handlers *handlerSet,
	m *metrics,
	topic string,
	msg *Message,
) {
	registered := handlers.get(topic)

	if len(registered) == 0 {
		m.dropped.Add(1)
		log.Debug("No handlers registered for topic",
			zap.String("topic", topic),
			zap.String("message_id", msg.ID))
		return
	}

	log.Debug("Processing message",
		zap.String("topic", topic),
		zap.String("message_id", msg.ID),
		zap.String("chat_id", msg.ChatID))

	for _, handler := range registered {
		if err := handler(ctx, msg); err != nil {
			m.errors.Add(1)
			log.Error("Handler error",
				zap.String("topic", topic),
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}
		m.delivered.Add(1)
	}
}
