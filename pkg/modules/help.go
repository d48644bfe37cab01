// Package modules provides the built-in chat command modules.
package modules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nekocmd/pkg/argument"
	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
)

// NewHelp creates the help module.
func NewHelp() (*commands.Module, error) {
	return chat.NewModule("help", func(b *chat.Builder) {
		b.Command("help", func(c *chat.CommandBuilder) {
			c.Description("Show available commands").Alias("commands")
			commands.Invoke1(c, argument.Optional(argument.Named(argument.Word(), "Command")),
				func(ctx context.Context, e *chat.Event, name *string) error {
					prefix := e.Processor.Prefix(ctx, chat.Context, e.Message)
					if name != nil {
						return e.Respond(ctx, describeCommand(e.Commands, prefix, *name))
					}
					return e.Respond(ctx, listCommands(e.Commands, prefix))
				})
		})
	})
}

func listCommands(entries map[string]*commands.Command, prefix string) string {
	cmds := canonicalChat(entries)
	if len(cmds) == 0 {
		return "No commands available."
	}

	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, cmd := range cmds {
		sb.WriteString(prefix + cmd.Name)
		if desc := compactDescription(cmd.Description, 72); desc != "" {
			sb.WriteString(" - " + desc)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\nUse %shelp <command> for details.", prefix))
	return sb.String()
}

func describeCommand(entries map[string]*commands.Command, prefix, name string) string {
	name = strings.TrimPrefix(name, prefix)
	cmd, ok := entries[name]
	if !ok || cmd.Context() != commands.Key(chat.Context) {
		return "Unknown command: " + name
	}
	cmd = cmd.Canonical()

	var sb strings.Builder
	sb.WriteString(cmd.Name)
	if cmd.Description != "" {
		sb.WriteString(" - " + cmd.Description)
	}
	sb.WriteString("\nUsage: " + strings.TrimSpace(prefix+cmd.Name+" "+cmd.Usage()))
	if len(cmd.Arguments) > 0 {
		sb.WriteString("\nExample: " + strings.TrimSpace(prefix+cmd.Name+" "+cmd.Example()))
	}
	if len(cmd.Aliases) > 0 {
		aliases := append([]string(nil), cmd.Aliases...)
		sort.Strings(aliases)
		sb.WriteString("\nAliases: " + strings.Join(aliases, ", "))
	}
	if cmd.Module != nil {
		sb.WriteString("\nModule: " + cmd.Module.Name)
	}
	return sb.String()
}

// canonicalChat returns the canonical chat commands sorted by name.
func canonicalChat(entries map[string]*commands.Command) []*commands.Command {
	cmds := make([]*commands.Command, 0, len(entries))
	for _, cmd := range entries {
		if cmd.IsAlias() || cmd.Context() != commands.Key(chat.Context) {
			continue
		}
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})
	return cmds
}

func compactDescription(desc string, limit int) string {
	desc = strings.Join(strings.Fields(strings.TrimSpace(desc)), " ")
	runes := []rune(desc)
	if len(runes) <= limit {
		return desc
	}
	return string(runes[:limit-1]) + "…"
}
