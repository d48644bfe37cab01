package processor

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// Module provides the command processor and ties it to the fx lifecycle.
var Module = fx.Module("processor",
	fx.Provide(ProvideProcessor),
)

// Params are the dependencies of ProvideProcessor.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Log       *logger.Logger
	Config    *config.Config
	Registry  *commands.Registry
	Modules   []*commands.Module `group:"command_modules"`
}

// ProvideProcessor creates the processor and registers every module of the
// command_modules group. Registration errors abort startup.
func ProvideProcessor(p Params) (*Processor, error) {
	proc := New(p.Log, Config{Workers: p.Config.Processor.Workers}, WithRegistry(p.Registry))

	if err := proc.AddModules(p.Modules...); err != nil {
		p.Log.Error("Failed to register command modules", zap.Error(err))
		return nil, err
	}

	p.Lifecycle.Append(fx.StartStopHook(proc.Start, proc.Stop))

	return proc, nil
}
