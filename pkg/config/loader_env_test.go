package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_UsesConfigPathEnvWhenPathEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "from-env.json")

	seed := DefaultConfig()
	seed.Processor.Prefix = "?"
	seed.Processor.Workers = 4

	loader := NewLoader()
	if err := loader.Save(cfgPath, seed); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv(ConfigPathEnv, cfgPath)

	got, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Processor.Prefix != "?" {
		t.Fatalf("expected prefix ?, got %q", got.Processor.Prefix)
	}
	if got.Processor.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", got.Processor.Workers)
	}
}

func TestLoad_AutoCreatesConfigForExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "custom", "config.json")

	got, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if got.Processor.Prefix != DefaultConfig().Processor.Prefix {
		t.Fatalf("expected default prefix, got %q", got.Processor.Prefix)
	}
}

func TestLoad_ReadsYAML(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `processor:
  prefix: "+"
  report_not_found: true
  allow_from:
    - "alice"
channels:
  schedule:
    enabled: true
    jobs:
      - name: heartbeat
        spec: "@every 5m"
        command: status
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Processor.Prefix != "+" || !got.Processor.ReportNotFound {
		t.Fatalf("unexpected processor config: %+v", got.Processor)
	}
	if len(got.Processor.AllowFrom) != 1 || got.Processor.AllowFrom[0] != "alice" {
		t.Fatalf("unexpected allow_from: %v", got.Processor.AllowFrom)
	}
	if len(got.Channels.Schedule.Jobs) != 1 || got.Channels.Schedule.Jobs[0].Command != "status" {
		t.Fatalf("unexpected schedule jobs: %+v", got.Channels.Schedule.Jobs)
	}
	if got.Bus.Type != "local" {
		t.Fatalf("expected defaults to survive partial file, got bus type %q", got.Bus.Type)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.json")
	if err := SaveToFile(DefaultConfig(), cfgPath); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv("NEKOCMD_PROCESSOR_PREFIX", "$")

	got, err := NewLoader().Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Processor.Prefix != "$" {
		t.Fatalf("expected env override, got %q", got.Processor.Prefix)
	}
}
