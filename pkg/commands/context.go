package commands

// Key identifies a processor context at runtime. Event handlers, sources,
// filters, prefixes and modules are bound to a Key.
type Key interface {
	ContextName() string
}

// Context is a type token shared by every command-related item of one event
// family. S is the raw event type produced by event sources, A the argument
// context handed to arguments while parsing, and E the command event handed
// to preconditions and command bodies.
//
// Contexts are compared by identity; create each one once.
type Context[S, A, E any] struct {
	name string
}

// NewContext creates a processor context.
func NewContext[S, A, E any](name string) *Context[S, A, E] {
	return &Context[S, A, E]{name: name}
}

// ContextName returns the context name.
func (c *Context[S, A, E]) ContextName() string {
	return c.name
}

// String implements fmt.Stringer.
func (c *Context[S, A, E]) String() string {
	return c.name
}
