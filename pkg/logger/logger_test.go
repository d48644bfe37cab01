package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nekocmd.log")

	cfg := DefaultConfig()
	cfg.OutputPath = path
	cfg.DisableConsole = true
	cfg.Development = true

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.WithFields(zap.String("event_id", "abc")).Info("dispatched", zap.String("command", "ping"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if entry["msg"] != "dispatched" || entry["event_id"] != "abc" || entry["command"] != "ping" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected plain level in file output, got %v", entry["level"])
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPath = ""
	cfg.Level = "verbose"

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.log")

	cfg := DefaultConfig()
	cfg.OutputPath = path
	cfg.DisableConsole = true
	cfg.Level = LevelWarn

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("dropped")
	log.Warn("kept")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), "kept") {
		t.Fatalf("unexpected log contents: %s", data)
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Named("test").WithFields(zap.Int("n", 1)).Error("ignored")
	if log.Sugar() == nil {
		t.Fatal("expected sugared logger")
	}
}

func TestProvideLoggerFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "fx.log")
	cfg.DisableConsole = true

	lc := fxtest.NewLifecycle(t)
	log, err := ProvideLoggerFromConfig(cfg, lc)
	if err != nil {
		t.Fatalf("ProvideLoggerFromConfig failed: %v", err)
	}
	lc.RequireStart()

	log.Info("from fx")
	lc.RequireStop()

	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "from fx") {
		t.Fatalf("expected the provided logger to write to the configured file, got %q", data)
	}
}
