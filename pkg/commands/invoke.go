package commands

import (
	"context"

	"nekocmd/pkg/argument"
)

// The InvokeN functions set the argument signature and body of a command.
// Each declared argument is paired with the body parameter of the same
// position, so a mismatch is a compile error.

// Invoke0 sets a body that takes no arguments.
func Invoke0[S, A, E any](b *CommandBuilder[S, A, E], fn func(ctx context.Context, event E) error) {
	b.arguments = nil
	b.invoke = func(ctx context.Context, event any, _ []any) error {
		return fn(ctx, eventOf[E](event))
	}
}

// Invoke1 sets a body that takes one argument.
func Invoke1[S, A, E, T1 any](
	b *CommandBuilder[S, A, E],
	a1 argument.Argument[T1],
	fn func(ctx context.Context, event E, v1 T1) error,
) {
	b.arguments = []argument.Any{argument.AsAny(a1)}
	b.invoke = func(ctx context.Context, event any, items []any) error {
		return fn(ctx, eventOf[E](event), item[T1](items, 0))
	}
}

// Invoke2 sets a body that takes two arguments.
func Invoke2[S, A, E, T1, T2 any](
	b *CommandBuilder[S, A, E],
	a1 argument.Argument[T1],
	a2 argument.Argument[T2],
	fn func(ctx context.Context, event E, v1 T1, v2 T2) error,
) {
	b.arguments = []argument.Any{argument.AsAny(a1), argument.AsAny(a2)}
	b.invoke = func(ctx context.Context, event any, items []any) error {
		return fn(ctx, eventOf[E](event), item[T1](items, 0), item[T2](items, 1))
	}
}

// Invoke3 sets a body that takes three arguments.
func Invoke3[S, A, E, T1, T2, T3 any](
	b *CommandBuilder[S, A, E],
	a1 argument.Argument[T1],
	a2 argument.Argument[T2],
	a3 argument.Argument[T3],
	fn func(ctx context.Context, event E, v1 T1, v2 T2, v3 T3) error,
) {
	b.arguments = []argument.Any{argument.AsAny(a1), argument.AsAny(a2), argument.AsAny(a3)}
	b.invoke = func(ctx context.Context, event any, items []any) error {
		return fn(ctx, eventOf[E](event), item[T1](items, 0), item[T2](items, 1), item[T3](items, 2))
	}
}

// Invoke4 sets a body that takes four arguments.
func Invoke4[S, A, E, T1, T2, T3, T4 any](
	b *CommandBuilder[S, A, E],
	a1 argument.Argument[T1],
	a2 argument.Argument[T2],
	a3 argument.Argument[T3],
	a4 argument.Argument[T4],
	fn func(ctx context.Context, event E, v1 T1, v2 T2, v3 T3, v4 T4) error,
) {
	b.arguments = []argument.Any{argument.AsAny(a1), argument.AsAny(a2), argument.AsAny(a3), argument.AsAny(a4)}
	b.invoke = func(ctx context.Context, event any, items []any) error {
		return fn(ctx, eventOf[E](event),
			item[T1](items, 0), item[T2](items, 1), item[T3](items, 2), item[T4](items, 3))
	}
}

// Invoke5 sets a body that takes five arguments.
func Invoke5[S, A, E, T1, T2, T3, T4, T5 any](
	b *CommandBuilder[S, A, E],
	a1 argument.Argument[T1],
	a2 argument.Argument[T2],
	a3 argument.Argument[T3],
	a4 argument.Argument[T4],
	a5 argument.Argument[T5],
	fn func(ctx context.Context, event E, v1 T1, v2 T2, v3 T3, v4 T4, v5 T5) error,
) {
	b.arguments = []argument.Any{
		argument.AsAny(a1), argument.AsAny(a2), argument.AsAny(a3), argument.AsAny(a4), argument.AsAny(a5),
	}
	b.invoke = func(ctx context.Context, event any, items []any) error {
		return fn(ctx, eventOf[E](event),
			item[T1](items, 0), item[T2](items, 1), item[T3](items, 2), item[T4](items, 3), item[T5](items, 4))
	}
}

func eventOf[E any](event any) E {
	e, _ := event.(E)
	return e
}

// item recovers a parsed value. A nil interface value yields the zero T.
func item[T any](items []any, i int) T {
	v, _ := items[i].(T)
	return v
}
