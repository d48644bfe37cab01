package modules

import (
	"go.uber.org/fx"

	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/processor"
)

// Module provides the built-in command modules.
var Module = fx.Module("modules",
	fx.Provide(
		NewControl,
		commands.AsModule(NewHelp),
		commands.AsModule(NewStatus),
		commands.AsModule(ProvideControlModule),
	),
	fx.Invoke(RegisterPreconditions),
)

// ProvideControlModule exposes the command-control module for fx.
func ProvideControlModule(c *Control) (*commands.Module, error) {
	return c.Module()
}

// RegisterPreconditions installs IgnoreDisabled for chat commands.
func RegisterPreconditions(proc *processor.Processor, c *Control) error {
	return proc.AddPrecondition(chat.Context, c.IgnoreDisabled())
}
