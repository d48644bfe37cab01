// Package bus routes messages between command invokers and the processor.
//
// Remote clients publish invocations on TopicInbound and receive replies on
// TopicOutbound. The local bus keeps everything in process; the Redis bus
// lets separate processes share the topics.
package bus

import (
	"context"
	"time"
)

// Topics used by the bus channel.
const (
	TopicInbound  = "inbound"
	TopicOutbound = "outbound"
)

// Message represents a message flowing through the bus.
type Message struct {
	ID        string            `json:"id" yaml:"id"`                                 // Unique message ID
	ChatID    string            `json:"chat_id" yaml:"chat_id"`                       // Conversation the message belongs to
	UserID    string            `json:"user_id" yaml:"user_id"`                       // User identifier
	Username  string            `json:"username" yaml:"username"`                     // User display name
	Content   string            `json:"content" yaml:"content"`                       // Text content
	Data      map[string]string `json:"data,omitempty" yaml:"data,omitempty"`         // Additional data
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`                   // Message timestamp
	ReplyTo   string            `json:"reply_to,omitempty" yaml:"reply_to,omitempty"` // ID of message being replied to
}

// Handler is a function that processes messages.
type Handler func(ctx context.Context, msg *Message) error

// Bus is the interface for message routing.
type Bus interface {
	// Start starts the message bus.
	Start() error

	// Stop stops the message bus.
	Stop() error

	// RegisterHandler registers a handler for a topic. The returned func
	// removes only that handler.
	RegisterHandler(topic string, handler Handler) func()

	// UnregisterHandlers removes all handlers for a topic.
	UnregisterHandlers(topic string)

	// Publish sends a message to every handler of topic.
	Publish(ctx context.Context, topic string, msg *Message) error

	// GetMetrics returns current bus metrics.
	GetMetrics() map[string]uint64
}
