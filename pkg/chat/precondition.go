package chat

import (
	"context"
	"strings"

	"nekocmd/pkg/commands"
)

// AllowListPriority runs the allow list ahead of other preconditions.
const AllowListPriority = 100

// AllowList permits commands only from the listed users or chats. Entries
// match a user ID, chat ID or username (case-insensitive, leading "@"
// ignored). "*" or an empty list allows everyone.
func AllowList(ids []string) commands.Precondition {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[normalizeID(id)] = struct{}{}
	}

	return commands.NewPrecondition("allow_list", AllowListPriority, func(_ context.Context, e *Event) bool {
		return isAllowed(allowed, e.Message)
	})
}

func isAllowed(allowed map[string]struct{}, m *Message) bool {
	if len(allowed) == 0 {
		return true
	}
	if _, ok := allowed["*"]; ok {
		return true
	}

	for _, id := range []string{m.UserID, m.ChatID, m.Username} {
		if id == "" {
			continue
		}
		if _, ok := allowed[normalizeID(id)]; ok {
			return true
		}
	}
	return false
}

func normalizeID(id string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(id)), "@")
}
