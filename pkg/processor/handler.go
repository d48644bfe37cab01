package processor

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nekocmd/pkg/commands"
	"nekocmd/pkg/logger"
)

// EventHandler handles the events of one context.
type EventHandler[S any] interface {
	Context() commands.Key
	Handle(ctx context.Context, p *Processor, event S)
}

// BaseEventHandler runs the dispatch pipeline for one event:
// filter, prefix, tokenize, resolve, convert, preconditions, parse, invoke.
type BaseEventHandler[S, A, E any] struct {
	context   *commands.Context[S, A, E]
	converter Converter[S, A, E]
	errors    ErrorHandler[S, A, E]
	log       *logger.Logger
}

// NewEventHandler creates an event handler. A nil errorHandler ignores
// per-event failures.
func NewEventHandler[S, A, E any](
	log *logger.Logger,
	ctx *commands.Context[S, A, E],
	converter Converter[S, A, E],
	errorHandler ErrorHandler[S, A, E],
) *BaseEventHandler[S, A, E] {
	if errorHandler == nil {
		errorHandler = NopErrorHandler[S, A, E]{}
	}
	return &BaseEventHandler[S, A, E]{
		context:   ctx,
		converter: converter,
		errors:    errorHandler,
		log:       log.WithFields(zap.String("context", ctx.ContextName())),
	}
}

// Context returns the handled context.
func (h *BaseEventHandler[S, A, E]) Context() commands.Key {
	return h.context
}

// Handle processes one event. Failures are reported through the error
// handler and logs, never returned.
func (h *BaseEventHandler[S, A, E]) Handle(ctx context.Context, p *Processor, event S) {
	for _, filter := range filters[S](p, h.context) {
		if !filter(ctx, event) {
			return
		}
	}

	text := h.converter.Text(event)
	prefix := p.Prefix(ctx, h.context, event)
	if !strings.HasPrefix(text, prefix) {
		return
	}

	words := strings.Split(text[len(prefix):], " ")
	name := words[0]
	if name == "" {
		h.errors.EmptyInvocation(ctx, event)
		return
	}

	log := h.log.WithFields(
		zap.String("event_id", uuid.NewString()),
		zap.String("command", name),
	)

	cmd, ok := p.registry.LookupIn(h.context, name)
	if !ok {
		log.Debug("Command not found")
		h.errors.NotFound(ctx, event, name)
		return
	}

	argCtx, err := h.converter.ToArgumentContext(ctx, event)
	if err != nil {
		log.Warn("Failed to build argument context", zap.Error(err))
		return
	}

	snapshot := p.snapshot()
	cmdEvent, err := h.converter.ToCommandEvent(ctx, argCtx, EventData{
		Command:   cmd,
		Commands:  snapshot.commands,
		Modules:   snapshot.modules,
		Processor: p,
	})
	if err != nil {
		log.Warn("Failed to build command event", zap.Error(err))
		return
	}

	preconditions := append(p.Preconditions(h.context), cmd.Preconditions...)
	if rejected, ok := commands.RunPreconditions(ctx, preconditions, cmdEvent); !ok {
		log.Debug("Precondition rejected command", zap.String("precondition", rejected.Name))
		return
	}

	args := words[1:]
	switch result := ParseArguments(ctx, argCtx, args, cmd.Arguments).(type) {
	case ArgumentsSuccess[A]:
		if err := cmd.Invoke(ctx, cmdEvent, result.Items); err != nil {
			log.Error("Command failed", zap.Error(err))
			return
		}
		log.Debug("Command invoked")
	case TooManyWords[A]:
		log.Debug("Too many words", zap.Int("words_taken", result.WordsTaken), zap.Int("words", len(args)))
		h.errors.TooManyWords(ctx, event, cmd, result)
	case ArgumentsFailure[A]:
		log.Debug("Argument rejected",
			zap.String("argument", result.Argument.Name()),
			zap.Int("at_word", result.AtWord()),
			zap.String("reason", result.Failure.Reason),
		)
		h.errors.RejectArgument(ctx, event, cmd, args, result)
	}
}
