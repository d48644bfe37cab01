// Package schedule provides a channel that emits configured commands on a
// cron schedule.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// Channel runs one cron entry per job. Replies are written to the log.
type Channel struct {
	log  *logger.Logger
	jobs []config.ScheduleJob
}

// NewChannel validates every job spec and creates the channel.
func NewChannel(log *logger.Logger, cfg config.ScheduleConfig) (*Channel, error) {
	for _, job := range cfg.Jobs {
		if _, err := cron.ParseStandard(job.Spec); err != nil {
			return nil, fmt.Errorf("invalid schedule for job %q: %w", job.Name, err)
		}
	}

	return &Channel{
		log:  log.Named("schedule"),
		jobs: cfg.Jobs,
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "schedule"
}

// Context returns the chat context.
func (c *Channel) Context() commands.Key {
	return chat.Context
}

// Events starts the scheduler. It stops when ctx ends.
func (c *Channel) Events(ctx context.Context) (<-chan *chat.Message, error) {
	stream := chat.NewStream()
	scheduler := cron.New(cron.WithLogger(cronLogger{log: c.log}))

	for _, job := range c.jobs {
		if _, err := scheduler.AddFunc(job.Spec, func() {
			stream.Emit(ctx, c.message(job))
		}); err != nil {
			return nil, fmt.Errorf("scheduling job %q: %w", job.Name, err)
		}
	}

	scheduler.Start()
	c.log.Info("Scheduler started", zap.Int("jobs", len(c.jobs)))

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
		stream.Close()
		c.log.Info("Scheduler stopped")
	}()

	return stream.C(), nil
}

func (c *Channel) message(job config.ScheduleJob) *chat.Message {
	return &chat.Message{
		ID:        uuid.NewString(),
		Platform:  "schedule",
		ChatID:    "schedule:" + job.Name,
		UserID:    "schedule",
		Username:  job.Name,
		Text:      job.Command,
		Timestamp: time.Now(),
		Responder: chat.ResponderFunc(func(_ context.Context, text string) error {
			c.log.Info("Scheduled command replied",
				zap.String("job", job.Name),
				zap.String("reply", text))
			return nil
		}),
	}
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append([]any{"error", err}, keysAndValues...)...)
}
