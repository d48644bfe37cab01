package commands

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"nekocmd/pkg/argument"
)

// Module is a named group of commands bound to one context.
type Module struct {
	// Name identifies the module.
	Name string

	key      Key
	commands map[string]*Command
}

// Context returns the key of the module's context.
func (m *Module) Context() Key {
	return m.key
}

// Command returns the entry resolved by name, including aliases.
func (m *Module) Command(name string) (*Command, bool) {
	cmd, ok := m.commands[name]
	return cmd, ok
}

// Commands returns a copy of every entry, canonical and alias, by name.
func (m *Module) Commands() map[string]*Command {
	out := make(map[string]*Command, len(m.commands))
	for name, cmd := range m.commands {
		out[name] = cmd
	}
	return out
}

// List returns the canonical commands sorted by name.
func (m *Module) List() []*Command {
	return canonical(m.commands)
}

func canonical(entries map[string]*Command) []*Command {
	cmds := make([]*Command, 0, len(entries))
	for _, cmd := range entries {
		if !cmd.IsAlias() {
			cmds = append(cmds, cmd)
		}
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})
	return cmds
}

// ModuleBuilder declares the commands of a module.
type ModuleBuilder[S, A, E any] struct {
	ctx           *Context[S, A, E]
	commands      []*CommandBuilder[S, A, E]
	preconditions []Precondition
}

// Command declares a command. fn must set the body with one of the
// Invoke functions.
func (b *ModuleBuilder[S, A, E]) Command(name string, fn func(*CommandBuilder[S, A, E])) {
	cb := &CommandBuilder[S, A, E]{name: name}
	if fn != nil {
		fn(cb)
	}
	b.commands = append(b.commands, cb)
}

// Precondition adds a guard to every command of the module.
func (b *ModuleBuilder[S, A, E]) Precondition(name string, priority int64, fn func(ctx context.Context, event E) bool) {
	b.preconditions = append(b.preconditions, NewPrecondition(name, priority, fn))
}

// Context returns the context the module is being built for.
func (b *ModuleBuilder[S, A, E]) Context() *Context[S, A, E] {
	return b.ctx
}

// CommandBuilder declares a single command.
type CommandBuilder[S, A, E any] struct {
	name          string
	description   string
	aliases       []string
	preconditions []Precondition
	arguments     []argument.Any
	invoke        Invoker
}

// Alias adds alternate names.
func (b *CommandBuilder[S, A, E]) Alias(names ...string) *CommandBuilder[S, A, E] {
	b.aliases = append(b.aliases, names...)
	return b
}

// Description sets the help text.
func (b *CommandBuilder[S, A, E]) Description(text string) *CommandBuilder[S, A, E] {
	b.description = text
	return b
}

// Precondition adds a command-specific guard.
func (b *CommandBuilder[S, A, E]) Precondition(name string, priority int64, fn func(ctx context.Context, event E) bool) *CommandBuilder[S, A, E] {
	b.preconditions = append(b.preconditions, NewPrecondition(name, priority, fn))
	return b
}

// NewModule builds a module from its declaration.
func NewModule[S, A, E any](name string, ctx *Context[S, A, E], fn func(*ModuleBuilder[S, A, E])) (*Module, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty module name", ErrInvalidName)
	}

	b := &ModuleBuilder[S, A, E]{ctx: ctx}
	if fn != nil {
		fn(b)
	}

	m := &Module{
		Name:     name,
		key:      ctx,
		commands: make(map[string]*Command),
	}

	for _, cb := range b.commands {
		if err := addCommand(m, cb, b.preconditions); err != nil {
			return nil, fmt.Errorf("module %s: %w", name, err)
		}
	}

	return m, nil
}

func addCommand[S, A, E any](m *Module, cb *CommandBuilder[S, A, E], shared []Precondition) error {
	cmd, err := cb.build(m, shared)
	if err != nil {
		return err
	}

	names := append([]string{cmd.Name}, cmd.Aliases...)
	for i, name := range names {
		if _, exists := m.commands[name]; exists || slices.Contains(names[:i], name) {
			return fmt.Errorf("%w: %s", ErrDuplicateCommandName, name)
		}
	}

	if len(cmd.Aliases) > 0 {
		cmd.AliasInfo = AliasInfo{Kind: AliasParent}
	}
	m.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		m.commands[alias] = cmd.alias(alias)
	}
	return nil
}

func (b *CommandBuilder[S, A, E]) build(m *Module, shared []Precondition) (*Command, error) {
	if strings.TrimSpace(b.name) == "" {
		return nil, fmt.Errorf("%w: empty command name", ErrInvalidName)
	}
	if strings.Contains(b.name, " ") {
		return nil, fmt.Errorf("%w: command name %q contains a space", ErrInvalidName, b.name)
	}
	for _, alias := range b.aliases {
		if strings.TrimSpace(alias) == "" {
			return nil, fmt.Errorf("%w: empty alias for %s", ErrInvalidName, b.name)
		}
		// Invocations are split on single spaces, so such a name never resolves.
		if strings.Contains(alias, " ") {
			return nil, fmt.Errorf("%w: alias %q for %s contains a space", ErrInvalidName, alias, b.name)
		}
	}
	if b.invoke == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingInvoke, b.name)
	}

	preconditions := make([]Precondition, 0, len(b.preconditions)+len(shared))
	preconditions = append(preconditions, b.preconditions...)
	preconditions = append(preconditions, shared...)

	return &Command{
		Name:          b.name,
		Description:   b.description,
		Aliases:       slices.Clone(b.aliases),
		Arguments:     b.arguments,
		Preconditions: preconditions,
		Module:        m,
		AliasInfo:     AliasInfo{Kind: AliasNone},
		key:           m.key,
		invoke:        b.invoke,
	}, nil
}
