// Package chat binds the command processor to chat platforms.
//
// Every channel normalizes its platform events into a Message. Commands
// declared in Context receive an *Event, which carries the message, the
// resolved command and a way to reply.
package chat

import (
	"context"
	"errors"
	"time"
)

// ErrNoResponder is returned when replying to a message that cannot be
// answered, e.g. one produced by a scheduled job without an output.
var ErrNoResponder = errors.New("chat: message has no responder")

// Responder sends a reply to where a message came from.
type Responder interface {
	Respond(ctx context.Context, text string) error
}

// ResponderFunc adapts a function to a Responder.
type ResponderFunc func(ctx context.Context, text string) error

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Message is a chat message normalized across platforms.
type Message struct {
	ID        string            `json:"id" yaml:"id"`
	Platform  string            `json:"platform" yaml:"platform"`
	ChatID    string            `json:"chat_id" yaml:"chat_id"`
	UserID    string            `json:"user_id" yaml:"user_id"`
	Username  string            `json:"username" yaml:"username"`
	Text      string            `json:"text" yaml:"text"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Responder replies on the originating platform. May be nil.
	Responder Responder `json:"-" yaml:"-"`
}

// Respond replies to the message.
func (m *Message) Respond(ctx context.Context, text string) error {
	if m.Responder == nil {
		return ErrNoResponder
	}
	return m.Responder.Respond(ctx, text)
}
