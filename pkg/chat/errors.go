package chat

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	"nekocmd/pkg/commands"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/processor"
)

// ErrorHandler replies to the user when an invocation cannot run.
type ErrorHandler struct {
	processor.NopErrorHandler[*Message, *Message, *Event]

	log            *logger.Logger
	reportNotFound atomic.Bool
}

// NewErrorHandler creates an error handler. Unknown commands are only
// reported when reportNotFound is set.
func NewErrorHandler(log *logger.Logger, reportNotFound bool) *ErrorHandler {
	h := &ErrorHandler{log: log}
	h.reportNotFound.Store(reportNotFound)
	return h
}

// SetReportNotFound toggles not-found replies.
func (h *ErrorHandler) SetReportNotFound(report bool) {
	h.reportNotFound.Store(report)
}

// NotFound implements processor.ErrorHandler.
func (h *ErrorHandler) NotFound(ctx context.Context, m *Message, name string) {
	if !h.reportNotFound.Load() {
		return
	}
	h.reply(ctx, m, fmt.Sprintf("Unknown command: %s", name))
}

// RejectArgument implements processor.ErrorHandler.
func (h *ErrorHandler) RejectArgument(ctx context.Context, m *Message, _ *commands.Command, words []string, failure processor.ArgumentsFailure[*Message]) {
	h.reply(ctx, m, Caret(m.Text, words, failure.AtWord(), failure.Failure.Reason))
}

// TooManyWords implements processor.ErrorHandler.
func (h *ErrorHandler) TooManyWords(ctx context.Context, m *Message, cmd *commands.Command, result processor.TooManyWords[*Message]) {
	text := Caret(m.Text, result.Words, result.WordsTaken, "Too many arguments.")
	h.reply(ctx, m, text+"\nUsage: "+strings.TrimSpace(cmd.Name+" "+cmd.Usage()))
}

func (h *ErrorHandler) reply(ctx context.Context, m *Message, text string) {
	if err := m.Respond(ctx, text); err != nil {
		h.log.Warn("Failed to send error reply",
			zap.String("platform", m.Platform),
			zap.String("chat_id", m.ChatID),
			zap.Error(err),
		)
	}
}

// Caret renders text with a marker under argument word at. words are the
// argument words, i.e. the tail of text after the command name.
func Caret(text string, words []string, at int, reason string) string {
	col := utf8.RuneCountInString(text) - utf8.RuneCountInString(strings.Join(words, " "))
	if len(words) == 0 {
		col++
	}
	for i := 0; i < at && i < len(words); i++ {
		col += utf8.RuneCountInString(words[i]) + 1
	}
	if at > len(words) {
		col += at - len(words)
	}

	return text + "\n" + strings.Repeat(" ", col) + "^ " + reason
}
