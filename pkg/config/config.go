// Package config provides configuration management for nekocmd.
// It uses Viper for flexible configuration loading with support for:
// - Multiple formats (JSON, YAML)
// - Environment variables
// - Hot-reload
// - Default values
package config

import (
	"os"
	"path/filepath"
)

// Config represents the complete nekocmd configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" json:"logger"`
	Processor ProcessorConfig `mapstructure:"processor" json:"processor"`
	Bus       BusConfig       `mapstructure:"bus" json:"bus"`
	Redis     RedisConfig     `mapstructure:"redis" json:"redis"`
	Channels  ChannelsConfig  `mapstructure:"channels" json:"channels"`
}

// LoggerConfig configures structured logging.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	OutputPath  string `mapstructure:"output_path" json:"output_path"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress"`
	Development bool   `mapstructure:"development" json:"development"`
}

// ProcessorConfig configures command dispatch.
type ProcessorConfig struct {
	// Prefix is the text a message must start with to be a command. Hot-reloaded.
	Prefix string `mapstructure:"prefix" json:"prefix"`
	// Workers bounds concurrently handled events. 0 means unbounded.
	Workers int `mapstructure:"workers" json:"workers"`
	// ReportNotFound replies to unknown command names.
	ReportNotFound bool `mapstructure:"report_not_found" json:"report_not_found"`
	// AllowFrom restricts every channel to these user IDs when non-empty.
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from"`
}

// BusConfig configures the message bus.
type BusConfig struct {
	Type       string `mapstructure:"type" json:"type"` // "local" or "redis"
	Prefix     string `mapstructure:"prefix" json:"prefix"`
	BufferSize int    `mapstructure:"buffer_size" json:"buffer_size"`
}

// RedisConfig configures the shared Redis connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db" json:"db"`
}

// ChannelsConfig contains all channel configurations.
type ChannelsConfig struct {
	Console   ConsoleConfig    `mapstructure:"console" json:"console"`
	Discord   DiscordConfig    `mapstructure:"discord" json:"discord"`
	Telegram  TelegramConfig   `mapstructure:"telegram" json:"telegram"`
	Slack     SlackConfig      `mapstructure:"slack" json:"slack"`
	WebSocket WebSocketConfig  `mapstructure:"websocket" json:"websocket"`
	Schedule  ScheduleConfig   `mapstructure:"schedule" json:"schedule"`
	Bus       BusChannelConfig `mapstructure:"bus" json:"bus"`
}

// ConsoleConfig for the interactive console channel.
type ConsoleConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Prompt      string `mapstructure:"prompt" json:"prompt"`
	HistoryFile string `mapstructure:"history_file" json:"history_file"`
}

// DiscordConfig for Discord channel.
type DiscordConfig struct {
	Enabled   bool     `mapstructure:"enabled" json:"enabled"`
	Token     string   `mapstructure:"token" json:"token"`
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from"`
}

// TelegramConfig for Telegram channel.
type TelegramConfig struct {
	Enabled        bool     `mapstructure:"enabled" json:"enabled"`
	Token          string   `mapstructure:"token" json:"token"`
	Proxy          string   `mapstructure:"proxy" json:"proxy"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	AllowFrom      []string `mapstructure:"allow_from" json:"allow_from"`
}

// SlackConfig for Slack channel.
type SlackConfig struct {
	Enabled   bool     `mapstructure:"enabled" json:"enabled"`
	BotToken  string   `mapstructure:"bot_token" json:"bot_token"`
	AppToken  string   `mapstructure:"app_token" json:"app_token"`
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from"`
}

// WebSocketConfig for the websocket bridge channel.
type WebSocketConfig struct {
	Enabled   bool     `mapstructure:"enabled" json:"enabled"`
	BridgeURL string   `mapstructure:"bridge_url" json:"bridge_url"`
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from"`
}

// ScheduleConfig for the cron-driven channel.
type ScheduleConfig struct {
	Enabled bool          `mapstructure:"enabled" json:"enabled"`
	Jobs    []ScheduleJob `mapstructure:"jobs" json:"jobs"`
}

// ScheduleJob emits Command as a message every time Spec fires.
type ScheduleJob struct {
	Name    string `mapstructure:"name" json:"name"`
	Spec    string `mapstructure:"spec" json:"spec"`
	Command string `mapstructure:"command" json:"command"`
}

// BusChannelConfig for the message bus channel.
type BusChannelConfig struct {
	Enabled   bool     `mapstructure:"enabled" json:"enabled"`
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Logger: LoggerConfig{
			Level:      "info",
			OutputPath: filepath.Join(homeDir, ".nekocmd", "logs", "nekocmd.log"),
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Processor: ProcessorConfig{
			Prefix:    "!",
			Workers:   0,
			AllowFrom: []string{},
		},
		Bus: BusConfig{
			Type:       "local",
			Prefix:     "nekocmd:bus:",
			BufferSize: 100,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Channels: ChannelsConfig{
			Console: ConsoleConfig{
				Enabled:     true,
				Prompt:      "> ",
				HistoryFile: filepath.Join(homeDir, ".nekocmd", "history"),
			},
			Discord: DiscordConfig{
				AllowFrom: []string{},
			},
			Telegram: TelegramConfig{
				TimeoutSeconds: 60,
				AllowFrom:      []string{},
			},
			Slack: SlackConfig{
				AllowFrom: []string{},
			},
			WebSocket: WebSocketConfig{
				BridgeURL: "ws://localhost:3001",
				AllowFrom: []string{},
			},
			Schedule: ScheduleConfig{
				Jobs: []ScheduleJob{},
			},
			Bus: BusChannelConfig{
				AllowFrom: []string{},
			},
		},
	}
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
