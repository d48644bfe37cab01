package main

import (
	"path/filepath"
	"reflect"
	"testing"

	"nekocmd/pkg/config"
)

func TestServiceConfig_DefaultArguments(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configPath = ""
	t.Setenv(config.ConfigPathEnv, "")

	got := ServiceConfig().Arguments
	want := []string{"run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected arguments %v, got %v", want, got)
	}
}

func TestServiceConfig_IncludesConfigFlag(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configFile := filepath.Join(t.TempDir(), "service-config.yaml")
	configPath = configFile
	t.Setenv(config.ConfigPathEnv, "")

	got := ServiceConfig().Arguments
	want := []string{"-c", configFile, "run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected arguments %v, got %v", want, got)
	}
}

func TestServiceConfig_UsesConfigPathEnvWhenFlagNotProvided(t *testing.T) {
	originalConfigPath := configPath
	t.Cleanup(func() {
		configPath = originalConfigPath
	})

	configPath = ""
	configFile := filepath.Join(t.TempDir(), "env-config.yaml")
	t.Setenv(config.ConfigPathEnv, configFile)

	got := ServiceConfig().Arguments
	want := []string{"-c", configFile, "run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected arguments %v, got %v", want, got)
	}
}
