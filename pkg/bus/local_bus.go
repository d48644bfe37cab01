package bus

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"nekocmd/pkg/logger"
)

type envelope struct {
	topic string
	msg   *Message
}

// LocalBus is a local in-process message bus using Go channels.
type LocalBus struct {
	log      *logger.Logger
	handlers *handlerSet

	queue chan envelope

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics metrics
}

// NewLocalBus creates a new local message bus.
func NewLocalBus(log *logger.Logger, bufferSize int) *LocalBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &LocalBus{
		log:      log,
		handlers: newHandlerSet(),
		queue:    make(chan envelope, bufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the message bus processing loop.
func (b *LocalBus) Start() error {
	b.log.Info("Starting message bus")

	b.wg.Add(1)
	go b.process()

	return nil
}

// Stop stops the message bus and waits for the processing loop to exit.
// Queued messages that were not yet dispatched are dropped.
func (b *LocalBus) Stop() error {
	b.log.Info("Stopping message bus")

	b.cancel()
	b.wg.Wait()

	b.log.Info("Message bus stopped")
	return nil
}

// RegisterHandler registers a handler for a topic and returns a func
// removing it again. Multiple handlers can be registered for the same topic.
func (b *LocalBus) RegisterHandler(topic string, handler Handler) func() {
	unregister := b.handlers.add(topic, handler)
	b.log.Debug("Registered handler", zap.String("topic", topic))
	return unregister
}

// UnregisterHandlers removes all handlers for a topic.
func (b *LocalBus) UnregisterHandlers(topic string) {
	b.handlers.clear(topic)
	b.log.Debug("Unregistered handlers", zap.String("topic", topic))
}

// Publish queues msg for the handlers of topic. It blocks while the queue
// is full.
func (b *LocalBus) Publish(ctx context.Context, topic string, msg *Message) error {
	if b.ctx.Err() != nil {
		return fmt.Errorf("bus is shutting down")
	}

	select {
	case b.queue <- envelope{topic: topic, msg: msg}:
		b.metrics.published.Add(1)
		return nil
	case <-b.ctx.Done():
		return fmt.Errorf("bus is shutting down")
	case <-ctx.Done():
		return fmt.Errorf("publishing to %s: %w", topic, ctx.Err())
	}
}

func (b *LocalBus) process() {
	defer b.wg.Done()

	for {
		select {
		case env := <-b.queue:
			dispatch(b.ctx, b.log, b.handlers, &b.metrics, env.topic, env.msg)
		case <-b.ctx.Done():
			return
		}
	}
}

// GetMetrics returns current bus metrics.
func (b *LocalBus) GetMetrics() map[string]uint64 {
	return b.metrics.snapshot()
}
