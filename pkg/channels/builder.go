package channels

import (
	"fmt"
	"strings"

	"nekocmd/pkg/bus"
	busch "nekocmd/pkg/channels/bus"
	"nekocmd/pkg/channels/console"
	"nekocmd/pkg/channels/discord"
	"nekocmd/pkg/channels/schedule"
	"nekocmd/pkg/channels/slack"
	"nekocmd/pkg/channels/telegram"
	"nekocmd/pkg/channels/websocket"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// BuildChannel creates a channel instance from the current config.
func BuildChannel(
	name string,
	log *logger.Logger,
	messageBus bus.Bus,
	cmdRegistry *commands.Registry,
	cfg *config.Config,
) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "console":
		return console.NewChannel(log, cfg.Channels.Console), nil
	case "discord":
		return discord.NewChannel(log, cfg.Channels.Discord)
	case "telegram":
		return telegram.NewChannel(log, cfg.Channels.Telegram, cmdRegistry)
	case "slack":
		return slack.NewChannel(log, cfg.Channels.Slack)
	case "websocket":
		return websocket.NewChannel(log, cfg.Channels.WebSocket)
	case "schedule":
		return schedule.NewChannel(log, cfg.Channels.Schedule)
	case "bus":
		if messageBus == nil {
			return nil, fmt.Errorf("bus channel requires a message bus")
		}
		return busch.NewChannel(log, cfg.Channels.Bus, messageBus), nil
	default:
		return nil, fmt.Errorf("unknown channel: %s", name)
	}
}

// IsChannelEnabled checks whether a channel is enabled in config.
func IsChannelEnabled(name string, cfg *config.Config) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "console":
		return cfg.Channels.Console.Enabled, nil
	case "discord":
		return cfg.Channels.Discord.Enabled, nil
	case "telegram":
		return cfg.Channels.Telegram.Enabled, nil
	case "slack":
		return cfg.Channels.Slack.Enabled, nil
	case "websocket":
		return cfg.Channels.WebSocket.Enabled, nil
	case "schedule":
		return cfg.Channels.Schedule.Enabled, nil
	case "bus":
		return cfg.Channels.Bus.Enabled, nil
	default:
		return false, fmt.Errorf("unknown channel: %s", name)
	}
}
