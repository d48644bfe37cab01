package channels

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nekocmd/pkg/bus"
	"nekocmd/pkg/commands"
	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/processor"
)

// Module is the fx module for channels.
var Module = fx.Module("channels",
	fx.Provide(NewChannelManager),
	fx.Invoke(RegisterChannels),
)

// NewChannelManager creates a new channel manager for fx.
func NewChannelManager(log *logger.Logger, proc *processor.Processor) *Manager {
	return NewManager(log, proc)
}

// RegisterParams are the dependencies of RegisterChannels.
type RegisterParams struct {
	fx.In

	Manager  *Manager
	Log      *logger.Logger
	Config   *config.Config
	Registry *commands.Registry
	Bus      bus.Bus `optional:"true"`
}

// RegisterChannels builds and registers every enabled channel. A channel
// that cannot be built is skipped with a warning.
func RegisterChannels(p RegisterParams) error {
	registered := 0
	for _, name := range Names {
		enabled, err := IsChannelEnabled(name, p.Config)
		if err != nil {
			return err
		}
		if !enabled {
			continue
		}

		channel, err := BuildChannel(name, p.Log, p.Bus, p.Registry, p.Config)
		if err != nil {
			p.Log.Warn("Failed to create channel, skipping",
				zap.String("channel", name),
				zap.Error(err))
			continue
		}
		if err := p.Manager.Register(channel); err != nil {
			return err
		}
		registered++
	}

	if registered == 0 {
		p.Log.Warn("No channels enabled")
	}
	return nil
}
