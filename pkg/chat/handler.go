package chat

import (
	"nekocmd/pkg/logger"
	"nekocmd/pkg/processor"
)

// Handler is the event handler for Context.
type Handler = processor.BaseEventHandler[*Message, *Message, *Event]

// NewHandler creates the chat event handler.
func NewHandler(log *logger.Logger, errors *ErrorHandler) *Handler {
	return processor.NewEventHandler[*Message, *Message, *Event](log, Context, Converter{}, errors)
}
