package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateLogger(&cfg.Logger)
	v.validateProcessor(&cfg.Processor)
	v.validateBus(&cfg.Bus, &cfg.Redis)
	v.validateChannels(&cfg.Channels)

	if len(v.errors) > 0 {
		return v.errors
	}

	return nil
}

func (v *Validator) validateLogger(cfg *LoggerConfig) {
	switch cfg.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		v.addError("logger.level", "level must be one of: debug, info, warn, error, fatal")
	}

	if cfg.MaxSize < 0 || cfg.MaxBackups < 0 || cfg.MaxAge < 0 {
		v.addError("logger", "rotation limits must be non-negative")
	}
}

func (v *Validator) validateProcessor(cfg *ProcessorConfig) {
	if cfg.Workers < 0 {
		v.addError("processor.workers", "workers must be non-negative")
	}
}

func (v *Validator) validateBus(cfg *BusConfig, redis *RedisConfig) {
	switch cfg.Type {
	case "", "local":
	case "redis":
		if strings.TrimSpace(redis.Addr) == "" {
			v.addError("redis.addr", "addr is required when bus type is redis")
		}
	default:
		v.addError("bus.type", "type must be one of: local, redis")
	}

	if cfg.BufferSize < 0 {
		v.addError("bus.buffer_size", "buffer_size must be non-negative")
	}
}

// validateChannels validates channel configuration.
func (v *Validator) validateChannels(cfg *ChannelsConfig) {
	if cfg.Discord.Enabled && cfg.Discord.Token == "" {
		v.addError("channels.discord.token", "token is required when Discord is enabled")
	}

	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		v.addError("channels.telegram.token", "token is required when Telegram is enabled")
	}
	if cfg.Telegram.Proxy != "" {
		if _, err := url.Parse(cfg.Telegram.Proxy); err != nil {
			v.addError("channels.telegram.proxy", "proxy must be a valid URL")
		}
	}

	if cfg.Slack.Enabled {
		if cfg.Slack.BotToken == "" {
			v.addError("channels.slack.bot_token", "bot_token is required when Slack is enabled")
		}
		if cfg.Slack.AppToken == "" {
			v.addError("channels.slack.app_token", "app_token is required when Slack is enabled")
		}
	}

	if cfg.WebSocket.Enabled {
		u, err := url.Parse(cfg.WebSocket.BridgeURL)
		if cfg.WebSocket.BridgeURL == "" || err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			v.addError("channels.websocket.bridge_url", "bridge_url must be a ws:// or wss:// URL")
		}
	}

	if cfg.Schedule.Enabled {
		for i, job := range cfg.Schedule.Jobs {
			prefix := fmt.Sprintf("channels.schedule.jobs[%d]", i)
			if strings.TrimSpace(job.Spec) == "" {
				v.addError(prefix+".spec", "spec is required")
			} else if _, err := cron.ParseStandard(job.Spec); err != nil {
				v.addError(prefix+".spec", fmt.Sprintf("invalid cron spec: %v", err))
			}
			if strings.TrimSpace(job.Command) == "" {
				v.addError(prefix+".command", "command is required")
			}
		}
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfig is a convenience function to validate a configuration.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
