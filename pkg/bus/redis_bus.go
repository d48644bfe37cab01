package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nekocmd/pkg/logger"
)

// RedisBus is a Redis-based message bus using pub/sub. Every process
// subscribed to the same prefix sees every published message.
type RedisBus struct {
	log    *logger.Logger
	client *redis.Client
	prefix string

	handlers *handlerSet

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Pub/Sub
	pubsub *redis.PubSub

	metrics metrics
}

// RedisBusConfig configures the Redis bus.
type RedisBusConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisBus creates a new Redis-based message bus.
func NewRedisBus(log *logger.Logger, cfg *RedisBusConfig) (*RedisBus, error) {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "nekocmd:bus:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &RedisBus{
		log:      log,
		client:   client,
		prefix:   prefix,
		handlers: newHandlerSet(),
		ctx:      ctx,
		cancel:   cancel,
	}

	log.Info("Redis bus initialized",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("prefix", prefix))

	return b, nil
}

// Start subscribes to every topic under the prefix.
func (b *RedisBus) Start() error {
	b.log.Info("Starting Redis message bus")

	b.pubsub = b.client.PSubscribe(b.ctx, b.prefix+"*")
	if _, err := b.pubsub.Receive(b.ctx); err != nil {
		return fmt.Errorf("subscribing to %s*: %w", b.prefix, err)
	}

	b.wg.Add(1)
	go b.processMessages()

	return nil
}

// Stop stops the Redis bus.
func (b *RedisBus) Stop() error {
	b.log.Info("Stopping Redis message bus")

	b.cancel()

	if b.pubsub != nil {
		_ = b.pubsub.Close()
	}

	b.wg.Wait()

	if err := b.client.Close(); err != nil {
		return fmt.Errorf("closing Redis client: %w", err)
	}

	b.log.Info("Redis message bus stopped")
	return nil
}

// RegisterHandler registers a handler for a topic and returns a func
// removing it again. Multiple handlers can be registered for the same topic.
func (b *RedisBus) RegisterHandler(topic string, handler Handler) func() {
	unregister := b.handlers.add(topic, handler)
	b.log.Debug("Registered handler", zap.String("topic", topic))
	return unregister
}

// UnregisterHandlers removes all handlers for a topic.
func (b *RedisBus) UnregisterHandlers(topic string) {
	b.handlers.clear(topic)
	b.log.Debug("Unregistered handlers", zap.String("topic", topic))
}

// Publish sends msg as JSON on the Redis channel of topic.
func (b *RedisBus) Publish(ctx context.Context, topic string, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel(topic), data).Err(); err != nil {
		return fmt.Errorf("publishing to Redis: %w", err)
	}

	b.metrics.published.Add(1)
	return nil
}

// GetMetrics returns current bus metrics.
func (b *RedisBus) GetMetrics() map[string]uint64 {
	return b.metrics.snapshot()
}

func (b *RedisBus) channel(topic string) string {
	return b.prefix + topic
}

func (b *RedisBus) processMessages() {
	defer b.wg.Done()

	ch := b.pubsub.Channel()

	for {
		select {
		case redisMsg, ok := <-ch:
			if !ok {
				return
			}

			b.handleRedisMessage(redisMsg)

		case <-b.ctx.Done():
			return
		}
	}
}

func (b *RedisBus) handleRedisMessage(redisMsg *redis.Message) {
	topic, ok := strings.CutPrefix(redisMsg.Channel, b.prefix)
	if !ok || topic == "" {
		b.log.Warn("Unknown channel format", zap.String("channel", redisMsg.Channel))
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
		b.metrics.errors.Add(1)
		b.log.Error("Failed to unmarshal message",
			zap.String("channel", redisMsg.Channel),
			zap.Error(err))
		return
	}

	dispatch(b.ctx, b.log, b.handlers, &b.metrics, topic, &msg)
}
