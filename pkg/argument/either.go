package argument

import "context"

// Either holds exactly one of a left or a right value.
type Either[A, B any] struct {
	left    A
	right   B
	isRight bool
}

// Left wraps a left value.
func Left[A, B any](value A) Either[A, B] {
	return Either[A, B]{left: value}
}

// Right wraps a right value.
func Right[A, B any](value B) Either[A, B] {
	return Either[A, B]{right: value, isRight: true}
}

// Left returns the left value and whether it is present.
func (e Either[A, B]) Left() (A, bool) {
	return e.left, !e.isRight
}

// Right returns the right value and whether it is present.
func (e Either[A, B]) Right() (B, bool) {
	return e.right, e.isRight
}

// IsRight reports whether the right side is set.
func (e Either[A, B]) IsRight() bool {
	return e.isRight
}

// Value returns whichever side is present when both sides share a type.
func Value[T any](e Either[T, T]) T {
	if e.isRight {
		return e.right
	}
	return e.left
}

// Or tries left first and falls back to right at the same index.
// It fails only when both fail, reporting the right failure.
func Or[A, B any](left Argument[A], right Argument[B]) Argument[Either[A, B]] {
	return &either[A, B]{left: left, right: right}
}

type either[A, B any] struct {
	left  Argument[A]
	right Argument[B]
}

func (e *either[A, B]) Name() string    { return e.left.Name() + " or " + e.right.Name() }
func (e *either[A, B]) Example() string { return e.left.Example() }

func (e *either[A, B]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[Either[A, B]] {
	if result := e.left.Parse(ctx, words, fromIndex, argCtx); result.Ok() {
		return Success(Left[A, B](result.Value), result.WordsTaken)
	}
	return Map(e.right.Parse(ctx, words, fromIndex, argCtx), Right[A, B])
}

// Flatten unwraps an Either argument whose sides share a type.
func Flatten[T any](arg Argument[Either[T, T]]) Argument[T] {
	return &flattened[T]{arg: arg}
}

type flattened[T any] struct {
	arg Argument[Either[T, T]]
}

func (f *flattened[T]) Name() string    { return f.arg.Name() }
func (f *flattened[T]) Example() string { return f.arg.Example() }

func (f *flattened[T]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[T] {
	return Map(f.arg.Parse(ctx, words, fromIndex, argCtx), Value[T])
}
