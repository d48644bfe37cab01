// Package main is the entry point for the nekocmd CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"nekocmd/pkg/bus"
	"nekocmd/pkg/channels"
	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/modules"
	"nekocmd/pkg/processor"
	"nekocmd/pkg/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nekocmd",
	Short: "nekocmd - A multi-channel chat command bot",
	Long: `nekocmd dispatches prefixed chat messages to typed commands.

Commands are grouped in modules and can be invoked from the console, Discord,
Telegram, Slack, a websocket bridge, cron schedules or the message bus.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if path := strings.TrimSpace(configPath); path != "" {
			_ = os.Setenv(config.ConfigPathEnv, path)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(versionCmd)
}

// appModules is the full module graph: built-in command modules, the
// processor and every enabled channel.
func appModules() fx.Option {
	return fx.Options(
		config.Module,
		logger.Module,
		commands.FxModule,
		processor.Module,
		chat.Module,
		modules.Module,
		bus.Module,
		channels.Module,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
