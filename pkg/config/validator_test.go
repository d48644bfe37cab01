package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
}

func TestValidateConfigRejectsEnabledChannelsWithoutCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels.Discord.Enabled = true
	cfg.Channels.Slack.Enabled = true
	cfg.Channels.Slack.BotToken = "xoxb-token"
	cfg.Channels.WebSocket.Enabled = true
	cfg.Channels.WebSocket.BridgeURL = "http://localhost:3001"

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatalf("expected validation errors")
	}

	var validationErrors ValidationErrors
	if !errors.As(err, &validationErrors) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	requiredFields := map[string]bool{
		"channels.discord.token":        false,
		"channels.slack.app_token":      false,
		"channels.websocket.bridge_url": false,
	}
	for _, validationErr := range validationErrors {
		if _, ok := requiredFields[validationErr.Field]; ok {
			requiredFields[validationErr.Field] = true
		}
	}
	for field, found := range requiredFields {
		if !found {
			t.Fatalf("expected validation error for %s, got %v", field, err)
		}
	}
}

func TestValidateConfigRejectsUnknownBusType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bus.Type = "kafka"

	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "bus.type") {
		t.Fatalf("expected bus.type validation error, got %v", err)
	}
}

func TestValidateConfigRequiresRedisAddrForRedisBus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bus.Type = "redis"
	cfg.Redis.Addr = ""

	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "redis.addr") {
		t.Fatalf("expected redis.addr validation error, got %v", err)
	}
}

func TestValidateConfigChecksScheduleJobs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels.Schedule.Enabled = true
	cfg.Channels.Schedule.Jobs = []ScheduleJob{
		{Name: "ok", Spec: "@every 1m", Command: "status"},
		{Name: "broken"},
	}

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatalf("expected schedule validation error")
	}
	if !strings.Contains(err.Error(), "channels.schedule.jobs[1].spec") ||
		!strings.Contains(err.Error(), "channels.schedule.jobs[1].command") {
		t.Fatalf("expected errors for jobs[1], got %v", err)
	}
	if strings.Contains(err.Error(), "jobs[0]") {
		t.Fatalf("did not expect errors for jobs[0], got %v", err)
	}
}

func TestValidateConfigRejectsNegativeWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Processor.Workers = -1

	if err := ValidateConfig(cfg); err == nil || !strings.Contains(err.Error(), "processor.workers") {
		t.Fatalf("expected processor.workers validation error, got %v", err)
	}
}

func TestValidateConfigRejectsInvalidCronSpec(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels.Schedule.Enabled = true
	cfg.Channels.Schedule.Jobs = []ScheduleJob{
		{Name: "typo", Spec: "*/5 * * *", Command: "!status"},
	}

	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid cron spec") {
		t.Fatalf("expected invalid cron spec error, got %v", err)
	}
}
