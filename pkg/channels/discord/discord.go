// Package discord provides the Discord channel.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// maxMessageLength is Discord's limit for a single message.
const maxMessageLength = 2000

// Channel turns Discord MessageCreate events into chat messages.
type Channel struct {
	log     *logger.Logger
	config  config.DiscordConfig
	session *discordgo.Session
}

// NewChannel creates a new Discord channel.
func NewChannel(log *logger.Logger, cfg config.DiscordConfig) (*Channel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Channel{
		log:     log,
		config:  cfg,
		session: session,
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "discord"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

// Events opens the gateway connection. It is closed when ctx ends.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	stream := chat.NewStream()

	remove := c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if msg := c.toMessage(s, m); msg != nil {
			stream.Emit(ctx, msg)
		}
	})

	if err := c.session.Open(); err != nil {
		remove()
		return nil, fmt.Errorf("opening discord connection: %w", err)
	}

	if botUser, err := c.session.User("@me"); err != nil {
		c.log.Warn("Failed to get bot user", zap.Error(err))
	} else {
		c.log.Info("Discord bot connected",
			zap.String("username", botUser.Username),
			zap.String("user_id", botUser.ID))
	}

	go func() {
		<-ctx.Done()
		remove()
		if err := c.session.Close(); err != nil {
			c.log.Warn("Failed to close discord session", zap.Error(err))
		}
		stream.Close()
	}()

	return stream.C(), nil
}

func (c *Channel) toMessage(s *discordgo.Session, m *discordgo.MessageCreate) *chat.Message {
	if m.Author == nil || m.Author.Bot {
		return nil
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return nil
	}

	msg := &chat.Message{
		ID:        m.ID,
		Platform:  "discord",
		ChatID:    m.ChannelID,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Text:      m.Content,
		Timestamp: m.Timestamp,
		Metadata: map[string]string{
			"guild_id": m.GuildID,
		},
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if !chat.Allowed(c.config.AllowFrom, msg) {
		c.log.Warn("Unauthorized user",
			zap.String("user_id", m.Author.ID),
			zap.String("username", m.Author.Username))
		return nil
	}

	reference := m.Reference()
	msg.Responder = chat.ResponderFunc(func(ctx context.Context, text string) error {
		return c.send(ctx, m.ChannelID, text, reference)
	})
	return msg
}

// send replies to reference, splitting text at Discord's length limit.
func (c *Channel) send(ctx context.Context, channelID, text string, reference *discordgo.MessageReference) error {
	for _, chunk := range split(text, maxMessageLength) {
		data := &discordgo.MessageSend{Content: chunk, Reference: reference}
		if _, err := c.session.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("sending discord message: %w", err)
		}
		reference = nil
	}

	c.log.Debug("Sent Discord message",
		zap.String("channel_id", channelID),
		zap.Int("length", len(text)))
	return nil
}

// split cuts text into pieces of at most limit runes, preferring line
// breaks.
func split(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i > 0 {
			cut = len([]rune(string(runes[:limit])[:i])) + 1
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
