package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"nekocmd/pkg/bus"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

const replyIdle = 500 * time.Millisecond

var (
	sendUser    string
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Send a command over the message bus and print the replies",
	Long: `Publish a message on the inbound bus topic and print every reply.

With the local bus the command runs in process. With the redis bus the
message goes to whichever nekocmd instance runs the bus channel.

Examples:
  nekocmd send '!help'
  nekocmd send --timeout 10s '!status'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewLoader().Load("")
		if err != nil {
			return err
		}

		options := []fx.Option{
			config.Module,
			logger.Module,
			bus.Module,
			fx.Decorate(quietLogger),
			fx.NopLogger,
		}
		if bus.BusType(cfg.Bus.Type) != bus.BusTypeRedis {
			options = []fx.Option{
				appModules(),
				fx.Decorate(busOnly),
				fx.Decorate(quietLogger),
				fx.NopLogger,
			}
		}

		var messageBus bus.Bus
		app := fx.New(append(options, fx.Populate(&messageBus))...)
		if err := app.Err(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer stopCancel()
			_ = app.Stop(stopCtx)
		}()

		replies := sendAndCollect(cmd.Context(), messageBus, strings.Join(args, " "), sendUser, sendTimeout)
		return printReplies(cmd.OutOrStdout(), replies)
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendUser, "user", "u", defaultUser(), "user ID to send as")
	sendCmd.Flags().DurationVarP(&sendTimeout, "timeout", "t", 5*time.Second, "how long to wait for the first reply")
}

// busOnly disables every channel except the bus channel.
func busOnly(cfg *config.Config) *config.Config {
	out := *cfg
	out.Channels = config.ChannelsConfig{Bus: cfg.Channels.Bus}
	out.Channels.Bus.Enabled = true
	return &out
}

// sendAndCollect publishes text and gathers replies until none arrives for
// replyIdle, or until timeout when nothing arrives at all.
func sendAndCollect(ctx context.Context, b bus.Bus, text, user string, timeout time.Duration) []string {
	id := uuid.NewString()

	var (
		mu      sync.Mutex
		replies []string
	)
	arrived := make(chan struct{}, 1)

	unregister := b.RegisterHandler(bus.TopicOutbound, func(_ context.Context, msg *bus.Message) error {
		if msg.ReplyTo != id {
			return nil
		}
		mu.Lock()
		replies = append(replies, msg.Content)
		mu.Unlock()
		select {
		case arrived <- struct{}{}:
		default:
		}
		return nil
	})
	defer unregister()

	err := b.Publish(ctx, bus.TopicInbound, &bus.Message{
		ID:        id,
		ChatID:    "cli:" + user,
		UserID:    user,
		Username:  user,
		Content:   text,
		Timestamp: time.Now(),
	})
	if err != nil {
		return []string{fmt.Sprintf("Error: %v", err)}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
		case <-timer.C:
		case <-arrived:
			timer.Reset(replyIdle)
			continue
		}
		break
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]string(nil), replies...)
}

func printReplies(w io.Writer, replies []string) error {
	if len(replies) == 0 {
		return fmt.Errorf("no reply received")
	}
	for _, reply := range replies {
		if _, err := fmt.Fprintln(w, reply); err != nil {
			return err
		}
	}
	return nil
}

func defaultUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "cli"
}
