package channels

import (
	"context"
	"errors"
	"testing"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/processor"
)

type fakeChannel struct {
	name string
}

func (f *fakeChannel) Name() string          { return f.name }
func (f *fakeChannel) Context() commands.Key { return chat.Context }
func (f *fakeChannel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	ch := make(chan *chat.Message)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func TestManagerRegister(t *testing.T) {
	proc := processor.New(logger.NewNop(), processor.Config{})
	manager := NewManager(logger.NewNop(), proc)

	for _, name := range []string{"zeta", "alpha"} {
		if err := manager.Register(&fakeChannel{name: name}); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	if err := manager.Register(&fakeChannel{name: "alpha"}); err == nil {
		t.Fatal("expected duplicate channel to fail")
	}

	names := manager.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("unexpected names: %v", names)
	}

	if _, err := manager.GetChannel("zeta"); err != nil {
		t.Fatalf("GetChannel failed: %v", err)
	}
	if _, err := manager.GetChannel("missing"); err == nil {
		t.Fatal("expected missing channel to fail")
	}
}

func TestManagerRegisterAfterStart(t *testing.T) {
	proc := processor.New(logger.NewNop(), processor.Config{})
	if err := proc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = proc.Stop(context.Background()) }()

	manager := NewManager(logger.NewNop(), proc)
	err := manager.Register(&fakeChannel{name: "late"})
	if !errors.Is(err, processor.ErrStarted) {
		t.Fatalf("expected ErrStarted, got %v", err)
	}
	if len(manager.Names()) != 0 {
		t.Fatal("expected failed channel to stay unregistered")
	}
}

func TestIsChannelEnabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Channels.Console.Enabled = true
	cfg.Channels.Discord.Enabled = false

	enabled, err := IsChannelEnabled("Console", cfg)
	if err != nil || !enabled {
		t.Fatalf("expected console enabled, got %v (%v)", enabled, err)
	}
	enabled, err = IsChannelEnabled("discord", cfg)
	if err != nil || enabled {
		t.Fatalf("expected discord disabled, got %v (%v)", enabled, err)
	}
	if _, err := IsChannelEnabled("irc", cfg); err == nil {
		t.Fatal("expected unknown channel to fail")
	}
}

func TestBuildChannel(t *testing.T) {
	cfg := config.DefaultConfig()

	ch, err := BuildChannel("console", logger.NewNop(), nil, commands.NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("BuildChannel(console) failed: %v", err)
	}
	if ch.Name() != "console" {
		t.Fatalf("expected console, got %s", ch.Name())
	}

	if _, err := BuildChannel("bus", logger.NewNop(), nil, commands.NewRegistry(), cfg); err == nil {
		t.Fatal("expected bus channel without a bus to fail")
	}
	if _, err := BuildChannel("telegram", logger.NewNop(), nil, commands.NewRegistry(), cfg); err == nil {
		t.Fatal("expected telegram without a token to fail")
	}
}
