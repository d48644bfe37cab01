package chat

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
	"nekocmd/pkg/processor"
)

// Module registers the chat handler, prefix and allow list on the processor.
var Module = fx.Module("chat",
	fx.Provide(ProvideErrorHandler),
	fx.Invoke(Register),
)

// ProvideErrorHandler provides the chat error handler.
func ProvideErrorHandler(log *logger.Logger, cfg *config.Config) *ErrorHandler {
	return NewErrorHandler(log, cfg.Processor.ReportNotFound)
}

// Params are the dependencies of Register.
type Params struct {
	fx.In

	Log       *logger.Logger
	Config    *config.Config
	Processor *processor.Processor
	Errors    *ErrorHandler
	Watcher   *config.Watcher `optional:"true"`
}

// Register binds Context to the processor. Prefix and not-found replies
// follow configuration reloads.
func Register(p Params) error {
	if err := processor.AddHandler[*Message](p.Processor, NewHandler(p.Log, p.Errors)); err != nil {
		return err
	}
	p.Processor.SetPrefix(Context, processor.Literal(p.Config.Processor.Prefix))

	if len(p.Config.Processor.AllowFrom) > 0 {
		if err := p.Processor.AddPrecondition(Context, AllowList(p.Config.Processor.AllowFrom)); err != nil {
			return err
		}
	}

	if p.Watcher != nil {
		p.Watcher.AddHandler(func(cfg *config.Config) error {
			p.Processor.SetPrefix(Context, processor.Literal(cfg.Processor.Prefix))
			p.Errors.SetReportNotFound(cfg.Processor.ReportNotFound)
			p.Log.Info("Chat prefix updated", zap.String("prefix", cfg.Processor.Prefix))
			return nil
		})
	}
	return nil
}
