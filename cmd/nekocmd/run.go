package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nekocmd/pkg/channels"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot on every enabled channel",
	Long: `Run the bot in the foreground with every channel enabled in the config.

When installed as a service, this is called automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isServiceInvocation() {
			return RunService()
		}
		runForeground(fx.Options())
		return nil
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run commands interactively on the console",
	Long: `Start the bot with only the console channel enabled.

Type commands with the configured prefix, e.g. "!help". Type "exit" or
press Ctrl+D to quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		runForeground(fx.Options(
			fx.Decorate(consoleOnly),
			fx.Decorate(quietLogger),
			fx.Invoke(stopWithConsole),
		))
	},
}

// runForeground runs the app until interrupted or shut down.
func runForeground(extra fx.Option) {
	app := fx.New(
		appModules(),
		extra,
		fx.Invoke(logStartup),
		fx.NopLogger,
	)
	app.Run()
}

func logStartup(lc fx.Lifecycle, log *logger.Logger, cm *channels.Manager, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("nekocmd started",
				zap.String("prefix", cfg.Processor.Prefix),
				zap.Strings("channels", cm.Names()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("nekocmd stopped")
			return nil
		},
	})
}

// consoleOnly disables every channel except the console.
func consoleOnly(cfg *config.Config) *config.Config {
	out := *cfg
	out.Channels = config.ChannelsConfig{Console: cfg.Channels.Console}
	out.Channels.Console.Enabled = true
	return &out
}

// quietLogger keeps log lines off the prompt.
func quietLogger(cfg *logger.Config) *logger.Config {
	out := *cfg
	out.DisableConsole = true
	return &out
}

// stopWithConsole shuts the app down once the console reads exit or EOF.
func stopWithConsole(lc fx.Lifecycle, shutdowner fx.Shutdowner, cm *channels.Manager) error {
	ch, err := cm.GetChannel("console")
	if err != nil {
		return err
	}
	console, ok := ch.(interface{ Done() <-chan struct{} })
	if !ok {
		return nil
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				<-console.Done()
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
	return nil
}
