// Package channels builds the chat channels enabled in configuration and
// registers them as event sources on the processor.
package channels

import (
	"nekocmd/pkg/chat"
	"nekocmd/pkg/processor"
)

// Channel is a source of chat messages.
type Channel = processor.EventSource[*chat.Message]

// Names lists every channel this build knows, in start order.
var Names = []string{"console", "discord", "telegram", "slack", "websocket", "schedule", "bus"}
