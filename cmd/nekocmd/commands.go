package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/modules"
	"nekocmd/pkg/processor"
)

var commandsOutput string

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List registered commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		var registry *commands.Registry
		app := fx.New(
			config.Module,
			logger.Module,
			commands.FxModule,
			processor.Module,
			chat.Module,
			modules.Module,
			fx.Decorate(quietLogger),
			fx.Populate(&registry),
			fx.NopLogger,
		)
		if err := app.Err(); err != nil {
			return err
		}

		return printCommands(cmd.OutOrStdout(), registry.List(), commandsOutput)
	},
}

func init() {
	commandsCmd.Flags().StringVarP(&commandsOutput, "output", "o", "text", "output format: text or yaml")
}

type commandInfo struct {
	Name        string   `yaml:"name"`
	Module      string   `yaml:"module"`
	Context     string   `yaml:"context"`
	Usage       string   `yaml:"usage"`
	Description string   `yaml:"description,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty"`
}

func describe(cmds []*commands.Command) []commandInfo {
	infos := make([]commandInfo, 0, len(cmds))
	for _, cmd := range cmds {
		info := commandInfo{
			Name:        cmd.Name,
			Context:     cmd.Context().ContextName(),
			Usage:       strings.TrimSpace(cmd.Name + " " + cmd.Usage()),
			Description: cmd.Description,
			Aliases:     cmd.Aliases,
		}
		if cmd.Module != nil {
			info.Module = cmd.Module.Name
		}
		infos = append(infos, info)
	}
	return infos
}

func printCommands(w io.Writer, cmds []*commands.Command, format string) error {
	infos := describe(cmds)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encoding commands: %w", err)
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "COMMAND\tMODULE\tALIASES\tDESCRIPTION")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Usage, info.Module, strings.Join(info.Aliases, ","), info.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
