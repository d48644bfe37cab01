package processor

import (
	"context"
	"errors"

	"nekocmd/pkg/commands"
)

var (
	// ErrNoHandler indicates an event source without a matching event handler.
	ErrNoHandler = errors.New("processor: no event handler for source context")

	// ErrStarted indicates a registration attempt after Start.
	ErrStarted = errors.New("processor: already started")

	// ErrNotStarted indicates Stop was called before Start.
	ErrNotStarted = errors.New("processor: not started")
)

// ErrorHandler receives per-event failures. Implementations usually reply
// to the user; none of these stop the processor.
type ErrorHandler[S, A, E any] interface {
	// NotFound is called when the first word names no command.
	NotFound(ctx context.Context, event S, name string)

	// EmptyInvocation is called when the text after the prefix has no first word.
	EmptyInvocation(ctx context.Context, event S)

	// RejectArgument is called when an argument fails to parse.
	RejectArgument(ctx context.Context, event S, command *commands.Command, words []string, failure ArgumentsFailure[A])

	// TooManyWords is called when input is left after all arguments parsed.
	TooManyWords(ctx context.Context, event S, command *commands.Command, result TooManyWords[A])
}

// NopErrorHandler ignores every failure. Embed it to override selectively.
type NopErrorHandler[S, A, E any] struct{}

func (NopErrorHandler[S, A, E]) NotFound(context.Context, S, string) {}
func (NopErrorHandler[S, A, E]) EmptyInvocation(context.Context, S)  {}

func (NopErrorHandler[S, A, E]) RejectArgument(context.Context, S, *commands.Command, []string, ArgumentsFailure[A]) {
}

func (NopErrorHandler[S, A, E]) TooManyWords(context.Context, S, *commands.Command, TooManyWords[A]) {}
