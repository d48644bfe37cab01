package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

func TestConsoleEmitsLinesUntilExit(t *testing.T) {
	in := strings.NewReader("!ping\n\n!echo a  b\r\nexit\n!ignored\n")
	var out bytes.Buffer
	c := New(logger.NewNop(), config.ConsoleConfig{}, in, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := c.Events(ctx)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	var texts []string
	for msg := range events {
		texts = append(texts, msg.Text)
		if msg.Platform != "console" || msg.ChatID != "console" {
			t.Fatalf("unexpected message origin: %+v", msg)
		}
		if err := msg.Respond(ctx, "pong"); err != nil {
			t.Fatalf("Respond failed: %v", err)
		}
	}

	if got := strings.Join(texts, "|"); got != "!ping|!echo a  b" {
		t.Fatalf("unexpected lines: %q", got)
	}
	if out.String() != "pong\npong\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("expected Done to be closed")
	}
}

func TestConsolePrintsPrompt(t *testing.T) {
	var out bytes.Buffer
	c := New(logger.NewNop(), config.ConsoleConfig{Prompt: "> "}, strings.NewReader("!ping\n"), &out)

	events, err := c.Events(context.Background())
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	for range events {
	}

	if out.String() != "> > " {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
