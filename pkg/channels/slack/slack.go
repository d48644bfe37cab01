// Package slack provides the Slack channel over Socket Mode.
package slack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// Channel receives Slack message events and replies in thread.
type Channel struct {
	log          *logger.Logger
	config       config.SlackConfig
	api          *slack.Client
	socketClient *socketmode.Client
	botUserID    string
}

// NewChannel creates a new Slack channel.
func NewChannel(log *logger.Logger, cfg config.SlackConfig) (*Channel, error) {
	if cfg.BotToken == "" || cfg.AppToken == "" {
		return nil, fmt.Errorf("slack bot_token and app_token are required")
	}

	api := slack.New(
		cfg.BotToken,
		slack.OptionAppLevelToken(cfg.AppToken),
	)

	return &Channel{
		log:          log,
		config:       cfg,
		api:          api,
		socketClient: socketmode.New(api),
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "slack"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

// Events authenticates and runs the Socket Mode connection until ctx ends.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	authResp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("slack auth test failed: %w", err)
	}
	c.botUserID = authResp.UserID

	c.log.Info("Slack bot connected",
		zap.String("bot_user_id", c.botUserID),
		zap.String("team", authResp.Team))

	go func() {
		if err := c.socketClient.RunContext(ctx); err != nil && ctx.Err() == nil {
			c.log.Error("Socket Mode connection error", zap.Error(err))
		}
	}()

	events := make(chan *chat.Message)
	go func() {
		defer close(events)

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-c.socketClient.Events:
				if !ok {
					return
				}
				msg := c.handleEvent(evt)
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

// handleEvent acknowledges evt and converts message events.
func (c *Channel) handleEvent(evt socketmode.Event) *chat.Message {
	if evt.Type != socketmode.EventTypeEventsAPI {
		return nil
	}
	if evt.Request != nil {
		c.socketClient.Ack(*evt.Request)
	}

	eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		c.log.Warn("Failed to parse Events API event")
		return nil
	}

	ev, ok := eventsAPIEvent.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return nil
	}
	return c.toMessage(ev)
}

func (c *Channel) toMessage(ev *slackevents.MessageEvent) *chat.Message {
	// Bots, edits and other subtypes are not invocations.
	if ev.BotID != "" || ev.SubType != "" || ev.User == "" || ev.User == c.botUserID {
		return nil
	}

	threadTS := ev.ThreadTimeStamp
	if threadTS == "" {
		threadTS = ev.TimeStamp
	}

	msg := &chat.Message{
		ID:        ev.TimeStamp,
		Platform:  "slack",
		ChatID:    ev.Channel,
		UserID:    ev.User,
		Username:  ev.User,
		Text:      ev.Text,
		Timestamp: parseTimestamp(ev.TimeStamp),
		Metadata: map[string]string{
			"thread_ts":    threadTS,
			"channel_type": ev.ChannelType,
		},
	}

	if !chat.Allowed(c.config.AllowFrom, msg) {
		c.log.Warn("Unauthorized user", zap.String("user_id", ev.User))
		return nil
	}

	channelID := ev.Channel
	msg.Responder = chat.ResponderFunc(func(ctx context.Context, text string) error {
		_, _, err := c.api.PostMessageContext(ctx, channelID,
			slack.MsgOptionText(text, false),
			slack.MsgOptionTS(threadTS),
		)
		if err != nil {
			return fmt.Errorf("sending slack message: %w", err)
		}
		return nil
	})
	return msg
}

// parseTimestamp converts a Slack "seconds.micros" timestamp.
func parseTimestamp(ts string) time.Time {
	secs, micros, _ := strings.Cut(ts, ".")
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Now()
	}
	us, _ := strconv.ParseInt(micros, 10, 64)
	return time.Unix(s, us*int64(time.Microsecond))
}
