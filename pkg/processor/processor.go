// Package processor dispatches events from event sources to command
// handlers.
package processor

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"

	"go.uber.org/zap"

	"nekocmd/pkg/commands"
	"nekocmd/pkg/logger"
)

// Config configures a Processor.
type Config struct {
	// Workers bounds concurrently running event tasks. 0 means unbounded.
	Workers int
}

// Option customizes a Processor.
type Option func(*Processor)

// WithScheduler replaces the default scheduler.
func WithScheduler(s Scheduler) Option {
	return func(p *Processor) {
		p.scheduler = s
	}
}

// WithRegistry uses an existing registry instead of a fresh one.
func WithRegistry(r *commands.Registry) Option {
	return func(p *Processor) {
		p.registry = r
	}
}

// Processor owns event sources, event handlers and the command registry.
// Registration must complete before Start.
type Processor struct {
	log       *logger.Logger
	registry  *commands.Registry
	scheduler Scheduler

	mu            sync.RWMutex
	handlers      map[commands.Key]any
	sources       []source
	filters       map[commands.Key][]any
	preconditions map[commands.Key][]commands.Precondition
	prefixes      map[commands.Key]Prefix
	started       bool
	frozen        registrySnapshot

	cancel context.CancelFunc
	loops  sync.WaitGroup
}

type source struct {
	name string
	key  commands.Key
	bind func(p *Processor) (subscriber, error)
}

// subscriber subscribes to a source and returns its consumption loop.
type subscriber func(ctx context.Context) (loop func(), err error)

type registrySnapshot struct {
	commands map[string]*commands.Command
	modules  map[string]*commands.Module
}

// New creates a processor.
func New(log *logger.Logger, cfg Config, opts ...Option) *Processor {
	p := &Processor{
		log:           log,
		handlers:      make(map[commands.Key]any),
		filters:       make(map[commands.Key][]any),
		preconditions: make(map[commands.Key][]commands.Precondition),
		prefixes:      make(map[commands.Key]Prefix),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = commands.NewRegistry()
	}
	if p.scheduler == nil {
		p.scheduler = NewScheduler(cfg.Workers)
	}
	return p
}

// Registry returns the command registry.
func (p *Processor) Registry() *commands.Registry {
	return p.registry
}

// AddModule registers the commands of m.
func (p *Processor) AddModule(m *commands.Module) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.started {
		return ErrStarted
	}
	return p.registry.AddModule(m)
}

// AddModules registers each module in order and stops at the first error.
func (p *Processor) AddModules(modules ...*commands.Module) error {
	for _, m := range modules {
		if err := p.AddModule(m); err != nil {
			return err
		}
	}
	return nil
}

// RemoveModule unregisters a module by name.
func (p *Processor) RemoveModule(name string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.started {
		return ErrStarted
	}
	p.registry.RemoveModule(name)
	return nil
}

// AddPrecondition adds a global precondition for every command of key.
func (p *Processor) AddPrecondition(key commands.Key, precondition commands.Precondition) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrStarted
	}
	p.preconditions[key] = append(p.preconditions[key], precondition)
	return nil
}

// Preconditions returns a copy of the global preconditions of key.
func (p *Processor) Preconditions(key commands.Key) []commands.Precondition {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Clone(p.preconditions[key])
}

// SetPrefix sets the prefix resolver of key. It may be called at any time.
func (p *Processor) SetPrefix(key commands.Key, prefix Prefix) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prefixes[key] = prefix
}

// Prefix resolves the prefix for an event of key. Contexts without a
// resolver use the empty prefix.
func (p *Processor) Prefix(ctx context.Context, key commands.Key, event any) string {
	p.mu.RLock()
	prefix, ok := p.prefixes[key]
	p.mu.RUnlock()

	if !ok {
		return ""
	}
	return prefix.Resolve(ctx, event)
}

// AddHandler registers the event handler of a context, replacing any
// previous one.
func AddHandler[S any](p *Processor, handler EventHandler[S]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrStarted
	}
	p.handlers[handler.Context()] = handler
	return nil
}

// AddFilter adds an event filter to a context.
func AddFilter[S any](p *Processor, key commands.Key, filter Filter[S]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrStarted
	}
	p.filters[key] = append(p.filters[key], filter)
	return nil
}

func filters[S any](p *Processor, key commands.Key) []Filter[S] {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Filter[S], 0, len(p.filters[key]))
	for _, f := range p.filters[key] {
		if filter, ok := f.(Filter[S]); ok {
			out = append(out, filter)
		}
	}
	return out
}

// AddSource registers an event source. Its events are dispatched to the
// handler of the same context once the processor starts.
func AddSource[S any](p *Processor, src EventSource[S]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrStarted
	}

	key := src.Context()
	p.sources = append(p.sources, source{
		name: src.Name(),
		key:  key,
		bind: func(p *Processor) (subscriber, error) {
			handler, ok := p.handlers[key].(EventHandler[S])
			if !ok {
				return nil, fmt.Errorf("%w: %s (source %s)", ErrNoHandler, key.ContextName(), src.Name())
			}
			return func(ctx context.Context) (func(), error) {
				events, err := src.Events(ctx)
				if err != nil {
					return nil, err
				}
				return func() { consume(ctx, p, src, handler, events) }, nil
			}, nil
		},
	})
	return nil
}

// Start subscribes to every event source and begins dispatching.
// Consumption runs until Stop regardless of ctx cancellation.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrStarted
	}

	subscribers := make([]subscriber, 0, len(p.sources))
	for _, src := range p.sources {
		subscribe, err := src.bind(p)
		if err != nil {
			return err
		}
		subscribers = append(subscribers, subscribe)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	loops := make([]func(), 0, len(subscribers))
	for i, subscribe := range subscribers {
		loop, err := subscribe(loopCtx)
		if err != nil {
			cancel()
			return fmt.Errorf("subscribe to %s: %w", p.sources[i].name, err)
		}
		loops = append(loops, loop)
	}
	for _, loop := range loops {
		p.loops.Add(1)
		go loop()
	}

	p.frozen = registrySnapshot{
		commands: p.registry.Commands(),
		modules:  p.registry.Modules(),
	}
	p.cancel = cancel
	p.started = true

	p.log.Info("Command processor started",
		zap.Int("sources", len(p.sources)),
		zap.Int("commands", len(p.frozen.commands)),
		zap.Int("modules", len(p.frozen.modules)),
	)
	return nil
}

func consume[S any](ctx context.Context, p *Processor, src EventSource[S], handler EventHandler[S], events <-chan S) {
	defer p.loops.Done()

	log := p.log.WithFields(zap.String("source", src.Name()), zap.String("context", src.Context().ContextName()))
	taskCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				log.Info("Event source closed")
				return
			}
			err := p.scheduler.Schedule(ctx, func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error("Event task panicked",
							zap.Any("panic", r),
							zap.ByteString("stack", debug.Stack()),
						)
					}
				}()
				handler.Handle(taskCtx, p, event)
			})
			if err != nil {
				return
			}
		}
	}
}

// Stop cancels every consumption loop and waits for in-flight tasks until
// ctx is done. Running command bodies are not interrupted.
func (p *Processor) Stop(ctx context.Context) error {
	p.mu.RLock()
	started, cancel := p.started, p.cancel
	p.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}

	cancel()
	p.loops.Wait()

	if err := p.scheduler.Wait(ctx); err != nil {
		p.log.Warn("Timed out waiting for in-flight events", zap.Error(err))
		return err
	}

	p.log.Info("Command processor stopped")
	return nil
}

// Started reports whether Start has succeeded.
func (p *Processor) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.started
}

func (p *Processor) snapshot() registrySnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.started {
		return p.frozen
	}
	return registrySnapshot{
		commands: p.registry.Commands(),
		modules:  p.registry.Modules(),
	}
}
