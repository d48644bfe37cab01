package processor

import "context"

// Prefix resolves the text an event must start with to be treated as a
// command invocation.
type Prefix interface {
	Resolve(ctx context.Context, event any) string
}

// Literal is a fixed prefix.
type Literal string

// Resolve returns the literal.
func (l Literal) Resolve(context.Context, any) string {
	return string(l)
}

// PrefixFunc resolves the prefix from the event, e.g. per chat.
// Events of another type resolve to the empty prefix.
func PrefixFunc[S any](fn func(ctx context.Context, event S) string) Prefix {
	return prefixFunc[S](fn)
}

type prefixFunc[S any] func(ctx context.Context, event S) string

func (f prefixFunc[S]) Resolve(ctx context.Context, event any) string {
	e, ok := event.(S)
	if !ok {
		return ""
	}
	return f(ctx, e)
}
