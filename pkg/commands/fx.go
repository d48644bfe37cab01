package commands

import (
	"go.uber.org/fx"
)

// ModuleGroup is the fx value group collecting command modules.
const ModuleGroup = `group:"command_modules"`

// FxModule provides the command registry.
var FxModule = fx.Module("commands",
	fx.Provide(NewRegistry),
)

// AsModule annotates a constructor returning (*Module, error) so that its
// result joins ModuleGroup.
func AsModule(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(ModuleGroup))
}
