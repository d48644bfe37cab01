package modules

import (
	"context"
	"sort"
	"sync"

	"nekocmd/pkg/argument"
	"nekocmd/pkg/chat"
	"nekocmd/pkg/commands"
)

// ControlModule is the name of the command-control module. Its own
// commands cannot be disabled.
const ControlModule = "command-control"

// IgnoreDisabledPriority runs after the allow list.
const IgnoreDisabledPriority = 80

// Control tracks disabled commands. State is kept in memory only.
type Control struct {
	mu       sync.RWMutex
	disabled map[string]struct{}
}

// NewControl creates a Control with every command enabled.
func NewControl() *Control {
	return &Control{disabled: make(map[string]struct{})}
}

// Disable marks a canonical command name as disabled.
func (c *Control) Disable(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled[name] = struct{}{}
}

// Enable clears the disabled mark. It reports whether the command was
// disabled.
func (c *Control) Enable(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.disabled[name]
	delete(c.disabled, name)
	return ok
}

// IsDisabled reports whether name is disabled.
func (c *Control) IsDisabled(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.disabled[name]
	return ok
}

// Disabled returns the disabled command names, sorted.
func (c *Control) Disabled() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.disabled))
	for name := range c.disabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IgnoreDisabled rejects disabled commands, aliases included, and tells the
// user so.
func (c *Control) IgnoreDisabled() commands.Precondition {
	return commands.NewPrecondition("ignore_disabled", IgnoreDisabledPriority, func(ctx context.Context, e *chat.Event) bool {
		name := e.Command.Canonical().Name
		if !c.IsDisabled(name) {
			return true
		}
		_ = e.Respondf(ctx, "Command %s is disabled.", name)
		return false
	})
}

// Module creates the command-control module.
func (c *Control) Module() (*commands.Module, error) {
	return chat.NewModule(ControlModule, func(b *chat.Builder) {
		b.Command("disable", func(cb *chat.CommandBuilder) {
			cb.Description("Disable a command until it is enabled again")
			commands.Invoke1(cb, argument.Named(argument.Word(), "Command"), func(ctx context.Context, e *chat.Event, name string) error {
				cmd, ok := resolve(e, name)
				if !ok {
					return e.Respondf(ctx, "Unknown command: %s", name)
				}
				if cmd.Module != nil && cmd.Module.Name == ControlModule {
					return e.Respondf(ctx, "Command %s cannot be disabled.", cmd.Name)
				}
				c.Disable(cmd.Name)
				return e.Respondf(ctx, "Disabled %s.", cmd.Name)
			})
		})
		b.Command("enable", func(cb *chat.CommandBuilder) {
			cb.Description("Enable a disabled command")
			commands.Invoke1(cb, argument.Named(argument.Word(), "Command"), func(ctx context.Context, e *chat.Event, name string) error {
				cmd, ok := resolve(e, name)
				if !ok {
					return e.Respondf(ctx, "Unknown command: %s", name)
				}
				if !c.Enable(cmd.Name) {
					return e.Respondf(ctx, "Command %s is not disabled.", cmd.Name)
				}
				return e.Respondf(ctx, "Enabled %s.", cmd.Name)
			})
		})
	})
}

func resolve(e *chat.Event, name string) (*commands.Command, bool) {
	cmd, ok := e.Commands[name]
	if !ok || cmd.Context() != commands.Key(chat.Context) {
		return nil, false
	}
	return cmd.Canonical(), true
}
