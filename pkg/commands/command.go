// Package commands holds command declarations, modules, preconditions and
// the registry used to resolve command names.
package commands

import (
	"context"
	"fmt"
	"strings"

	"nekocmd/pkg/argument"
)

// Invoker runs a command body with a command event and parsed argument
// values in declared order.
type Invoker func(ctx context.Context, event any, items []any) error

// Command represents a named, invocable unit.
// Commands are immutable once their module has been registered.
type Command struct {
	// Name is the name this entry is resolved by.
	Name string
	// Description is a short description of what the command does.
	Description string
	// Aliases lists alternate names. Empty on alias entries.
	Aliases []string
	// Arguments is the positional invocation signature.
	Arguments []argument.Any
	// Preconditions are checked before arguments are parsed.
	Preconditions []Precondition
	// Module is the owning module.
	Module *Module
	// AliasInfo tells whether this entry is canonical or an alias.
	AliasInfo AliasInfo

	key    Key
	invoke Invoker
}

// Context returns the key of the context the command belongs to.
func (c *Command) Context() Key {
	return c.key
}

// Canonical returns the parent command for alias entries, c otherwise.
func (c *Command) Canonical() *Command {
	if c.AliasInfo.Kind == AliasChild && c.AliasInfo.Parent != nil {
		return c.AliasInfo.Parent
	}
	return c
}

// IsAlias reports whether c is an alias entry.
func (c *Command) IsAlias() bool {
	return c.AliasInfo.Kind == AliasChild
}

// Invoke calls the command body.
func (c *Command) Invoke(ctx context.Context, event any, items []any) error {
	if len(items) != len(c.Arguments) {
		return fmt.Errorf("commands: %s expects %d arguments, got %d", c.Name, len(c.Arguments), len(items))
	}
	return c.invoke(ctx, event, items)
}

// Usage renders the argument signature, e.g. "<Number> <Text>".
func (c *Command) Usage() string {
	parts := make([]string, 0, len(c.Arguments))
	for _, arg := range c.Arguments {
		parts = append(parts, "<"+arg.Name()+">")
	}
	return strings.Join(parts, " ")
}

// Example renders an example invocation of the arguments.
func (c *Command) Example() string {
	parts := make([]string, 0, len(c.Arguments))
	for _, arg := range c.Arguments {
		if ex := arg.Example(); ex != "" {
			parts = append(parts, ex)
		}
	}
	return strings.Join(parts, " ")
}

// alias returns a copy of c resolved by name and pointing back at c.
func (c *Command) alias(name string) *Command {
	return &Command{
		Name:          name,
		Description:   c.Description,
		Arguments:     c.Arguments,
		Preconditions: c.Preconditions,
		Module:        c.Module,
		AliasInfo:     AliasInfo{Kind: AliasChild, Parent: c},
		key:           c.key,
		invoke:        c.invoke,
	}
}
