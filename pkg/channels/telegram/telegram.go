// Package telegram provides the Telegram channel.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

const defaultPollTimeout = 50

// Channel receives Telegram messages by long polling.
type Channel struct {
	log      *logger.Logger
	config   config.TelegramConfig
	registry *commands.Registry
}

// NewChannel creates a new Telegram channel. When registry is set, its
// commands are published as the bot's slash commands.
func NewChannel(log *logger.Logger, cfg config.TelegramConfig, registry *commands.Registry) (*Channel, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	return &Channel{
		log:      log,
		config:   cfg,
		registry: registry,
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "telegram"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

func (c *Channel) pollTimeout() int {
	if c.config.TimeoutSeconds > 0 {
		return c.config.TimeoutSeconds
	}
	return defaultPollTimeout
}

// Events connects the bot and starts long polling.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	// Keep HTTP timeout longer than long-poll timeout to avoid periodic forced reconnects.
	httpClient := &http.Client{Timeout: time.Duration(c.pollTimeout()+25) * time.Second}
	if c.config.Proxy != "" {
		proxyURL, err := url.Parse(c.config.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing telegram proxy: %w", err)
		}
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
		c.log.Info("Telegram proxy enabled", zap.String("proxy", proxyURL.String()))
	}

	bot, err := tgbotapi.NewBotAPIWithClient(c.config.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	c.log.Info("Telegram bot connected", zap.String("username", bot.Self.UserName))
	c.syncSlashCommands(bot)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.pollTimeout()
	updates := bot.GetUpdatesChan(u)

	events := make(chan *chat.Message)
	go func() {
		defer close(events)
		defer bot.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				c.log.Info("Telegram channel stopping")
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil {
					continue
				}
				msg := c.toMessage(bot, update.Message)
				if msg == nil {
					continue
				}
				if !chat.Deliver(ctx, events, msg) {
					return
				}
			}
		}
	}()

	return events, nil
}

func (c *Channel) toMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) *chat.Message {
	if message.From == nil || message.Text == "" {
		return nil
	}

	msg := &chat.Message{
		ID:        strconv.Itoa(message.MessageID),
		Platform:  "telegram",
		ChatID:    strconv.FormatInt(message.Chat.ID, 10),
		UserID:    strconv.FormatInt(message.From.ID, 10),
		Username:  message.From.UserName,
		Text:      stripMention(message.Text, bot.Self.UserName),
		Timestamp: message.Time(),
		Metadata: map[string]string{
			"chat_type": message.Chat.Type,
		},
	}

	if !chat.Allowed(c.config.AllowFrom, msg) {
		c.log.Warn("Unauthorized access attempt",
			zap.Int64("user_id", message.From.ID),
			zap.String("username", message.From.UserName))
		return nil
	}

	chatID, messageID := message.Chat.ID, message.MessageID
	msg.Responder = chat.ResponderFunc(func(_ context.Context, text string) error {
		reply := tgbotapi.NewMessage(chatID, text)
		reply.ReplyToMessageID = messageID
		if _, err := bot.Send(reply); err != nil {
			return fmt.Errorf("sending telegram message: %w", err)
		}
		return nil
	})
	return msg
}

// stripMention removes the "@bot" suffix Telegram appends to commands in
// group chats, e.g. "/help@nekocmd_bot 2" becomes "/help 2".
func stripMention(text, botName string) string {
	if botName == "" {
		return text
	}

	first, rest, found := strings.Cut(text, " ")
	name, mention, ok := strings.Cut(first, "@")
	if !ok || !strings.EqualFold(mention, botName) {
		return text
	}
	if !found {
		return name
	}
	return name + " " + rest
}

func (c *Channel) syncSlashCommands(bot *tgbotapi.BotAPI) {
	if c.registry == nil {
		return
	}

	cmds := c.registry.List()
	telegramCmds := make([]tgbotapi.BotCommand, 0, len(cmds))
	seen := make(map[string]struct{})

	for _, cmd := range cmds {
		name := sanitizeTelegramCommandName(cmd.Name)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}

		desc := strings.TrimSpace(cmd.Description)
		if desc == "" {
			desc = strings.TrimSpace(cmd.Usage())
		}
		if desc == "" {
			desc = "Command"
		}
		if len(desc) > 256 {
			desc = desc[:256]
		}

		telegramCmds = append(telegramCmds, tgbotapi.BotCommand{
			Command:     name,
			Description: desc,
		})
	}

	if len(telegramCmds) == 0 {
		return
	}

	// Telegram supports at most 100 commands.
	sort.Slice(telegramCmds, func(i, j int) bool {
		return telegramCmds[i].Command < telegramCmds[j].Command
	})
	if len(telegramCmds) > 100 {
		telegramCmds = telegramCmds[:100]
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegramCmds...)); err != nil {
		c.log.Warn("Failed to sync Telegram slash commands", zap.Error(err))
		return
	}

	c.log.Info("Synced Telegram slash commands", zap.Int("count", len(telegramCmds)))
}

func sanitizeTelegramCommandName(name string) string {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range normalized {
		if b.Len() >= 32 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '-' || r == '_':
			if b.Len() > 0 && !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
