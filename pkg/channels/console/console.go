// Package console provides the interactive console channel.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// Channel reads commands from a terminal or any line-oriented reader and
// writes replies back.
type Channel struct {
	log    *logger.Logger
	config config.ConsoleConfig
	in     io.Reader

	mu  sync.Mutex
	out io.Writer

	done     chan struct{}
	doneOnce sync.Once
}

// NewChannel creates a console channel on stdin and stdout.
func NewChannel(log *logger.Logger, cfg config.ConsoleConfig) *Channel {
	return New(log, cfg, os.Stdin, os.Stdout)
}

// New creates a console channel reading from in and replying to out.
func New(log *logger.Logger, cfg config.ConsoleConfig, in io.Reader, out io.Writer) *Channel {
	return &Channel{
		log:    log,
		config: cfg,
		in:     in,
		out:    out,
		done:   make(chan struct{}),
	}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "console"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

// Done is closed once the input ends or the user types exit.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Events starts reading lines. Each non-empty line becomes a message.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	readLine, closeInput, err := c.open()
	if err != nil {
		return nil, err
	}

	events := make(chan *chat.Message)

	go func() {
		<-ctx.Done()
		closeInput()
	}()

	go func() {
		defer close(events)
		defer c.doneOnce.Do(func() { close(c.done) })

		for {
			line, err := readLine()
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, readline.ErrInterrupt) && ctx.Err() == nil {
					c.log.Warn("Failed to read console input", zap.Error(err))
				}
				return
			}

			line = strings.TrimSuffix(line, "\r")
			switch strings.TrimSpace(line) {
			case "":
				continue
			case "exit", "quit":
				return
			}

			if !chat.Deliver(ctx, events, c.message(line)) {
				return
			}
		}
	}()

	return events, nil
}

// open prefers readline on terminals and falls back to a line scanner.
func (c *Channel) open() (func() (string, error), func(), error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          c.config.Prompt,
			HistoryFile:     c.config.HistoryFile,
			HistoryLimit:    100,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err == nil {
			c.mu.Lock()
			c.out = rl.Stdout()
			c.mu.Unlock()
			return rl.Readline, func() { _ = rl.Close() }, nil
		}
		c.log.Warn("Readline not available, using simple mode", zap.Error(err))
	}

	scanner := bufio.NewScanner(c.in)
	readLine := func() (string, error) {
		if c.config.Prompt != "" {
			c.write(c.config.Prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	}
	return readLine, func() {}, nil
}

func (c *Channel) message(text string) *chat.Message {
	username := os.Getenv("USER")
	if username == "" {
		username = "console"
	}

	return &chat.Message{
		ID:        uuid.NewString(),
		Platform:  "console",
		ChatID:    "console",
		UserID:    "local",
		Username:  username,
		Text:      text,
		Timestamp: time.Now(),
		Responder: chat.ResponderFunc(func(_ context.Context, reply string) error {
			return c.write(reply + "\n")
		}),
	}
}

func (c *Channel) write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprint(c.out, text); err != nil {
		return fmt.Errorf("writing console output: %w", err)
	}
	return nil
}
