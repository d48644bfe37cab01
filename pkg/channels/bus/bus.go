// Package bus provides the channel that takes invocations from the message
// bus and publishes replies back on it.
package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	messagebus "nekocmd/pkg/bus"
	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

const publishTimeout = 5 * time.Second

// Channel consumes messages published on TopicInbound. Replies go to
// TopicOutbound with ReplyTo set to the invoking message ID.
type Channel struct {
	log    *logger.Logger
	config config.BusChannelConfig
	bus    messagebus.Bus
}

// NewChannel creates a new bus channel.
func NewChannel(log *logger.Logger, cfg config.BusChannelConfig, b messagebus.Bus) *Channel {
	return &Channel{
		log:    log,
		config: cfg,
		bus:    b,
	}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "bus"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

// Events registers the inbound handler until ctx ends.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	stream := chat.NewStream()

	unregister := c.bus.RegisterHandler(messagebus.TopicInbound, func(_ context.Context, m *messagebus.Message) error {
		if msg := c.toMessage(m); msg != nil {
			stream.Emit(ctx, msg)
		}
		return nil
	})

	go func() {
		<-ctx.Done()
		unregister()
		stream.Close()
	}()

	return stream.C(), nil
}

func (c *Channel) toMessage(m *messagebus.Message) *chat.Message {
	msg := &chat.Message{
		ID:        m.ID,
		Platform:  "bus",
		ChatID:    m.ChatID,
		UserID:    m.UserID,
		Username:  m.Username,
		Text:      m.Content,
		Timestamp: m.Timestamp,
		Metadata:  m.Data,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if !chat.Allowed(c.config.AllowFrom, msg) {
		c.log.Warn("Unauthorized user", zap.String("user_id", m.UserID))
		return nil
	}

	msg.Responder = chat.ResponderFunc(func(ctx context.Context, text string) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		return c.bus.Publish(ctx, messagebus.TopicOutbound, &messagebus.Message{
			ID:        uuid.NewString(),
			ChatID:    m.ChatID,
			UserID:    m.UserID,
			Username:  m.Username,
			Content:   text,
			Timestamp: time.Now(),
			ReplyTo:   m.ID,
		})
	})
	return msg
}
