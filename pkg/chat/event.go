package chat

import (
	"context"
	"fmt"

	"nekocmd/pkg/commands"
	"nekocmd/pkg/processor"
)

// Context is the command context shared by all chat channels.
var Context = commands.NewContext[*Message, *Message, *Event]("chat")

// Builder declares commands in Context.
type Builder = commands.ModuleBuilder[*Message, *Message, *Event]

// CommandBuilder declares a single command in Context.
type CommandBuilder = commands.CommandBuilder[*Message, *Message, *Event]

// Event is passed to preconditions and command bodies.
type Event struct {
	processor.EventData

	Message *Message
}

// Respond replies to the message that invoked the command.
func (e *Event) Respond(ctx context.Context, text string) error {
	return e.Message.Respond(ctx, text)
}

// Respondf formats and sends a reply.
func (e *Event) Respondf(ctx context.Context, format string, args ...any) error {
	return e.Message.Respond(ctx, fmt.Sprintf(format, args...))
}

// Converter turns messages into the processor's pipeline types. The
// argument context is the message itself.
type Converter struct{}

// Text returns the message text.
func (Converter) Text(m *Message) string {
	return m.Text
}

// ToArgumentContext returns m.
func (Converter) ToArgumentContext(_ context.Context, m *Message) (*Message, error) {
	return m, nil
}

// ToCommandEvent wraps m with the resolved command data.
func (Converter) ToCommandEvent(_ context.Context, m *Message, data processor.EventData) (*Event, error) {
	return &Event{EventData: data, Message: m}, nil
}

// NewModule declares a module in Context.
func NewModule(name string, fn func(*Builder)) (*commands.Module, error) {
	return commands.NewModule(name, Context, fn)
}
