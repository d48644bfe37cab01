// Package argument provides typed, composable parsers over a tokenized word sequence.
//
// An Argument consumes zero or more words starting at a given index and either
// yields a value together with the number of words it took, or a Failure that
// points at the offending word relative to its own start.
package argument

import (
	"context"
	"fmt"
)

// Argument parses a value of type T from a word sequence.
//
// Implementations must not keep mutable state: the same instance is shared by
// every invocation of a command, possibly concurrently.
type Argument[T any] interface {
	// Name is the human-readable name shown in usage and error messages.
	Name() string

	// Example returns an example input that this argument accepts.
	Example() string

	// Parse reads from words starting at fromIndex. argCtx is the
	// platform-specific argument context produced by the converter.
	Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[T]
}

// Failure describes why an argument rejected its input.
type Failure struct {
	// Reason is a user-facing explanation.
	Reason string
	// AtWord is the offset of the failing word, relative to where the argument started.
	AtWord int
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("at word %d: %s", f.AtWord, f.Reason)
}

// Result is the outcome of a single Parse call.
// Failure is nil on success.
type Result[T any] struct {
	Value      T
	WordsTaken int
	Failure    *Failure
}

// Ok reports whether the parse succeeded.
func (r Result[T]) Ok() bool {
	return r.Failure == nil
}

// Success returns a successful result.
func Success[T any](value T, wordsTaken int) Result[T] {
	if wordsTaken < 0 {
		wordsTaken = 0
	}
	return Result[T]{Value: value, WordsTaken: wordsTaken}
}

// Fail returns a failed result.
func Fail[T any](reason string, atWord int) Result[T] {
	return Result[T]{Failure: &Failure{Reason: reason, AtWord: atWord}}
}

// Map converts the value of a successful result, passing failures through.
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	if !r.Ok() {
		return Result[R]{Failure: r.Failure}
	}
	return Success(fn(r.Value), r.WordsTaken)
}

// Any is the type-erased view of an Argument used in command signatures.
type Any interface {
	Name() string
	Example() string
	ParseAny(ctx context.Context, words []string, fromIndex int, argCtx any) Result[any]
}

// AsAny erases the value type of arg.
func AsAny[T any](arg Argument[T]) Any {
	if a, ok := any(arg).(Any); ok {
		return a
	}
	return erased[T]{arg: arg}
}

type erased[T any] struct {
	arg Argument[T]
}

func (e erased[T]) Name() string    { return e.arg.Name() }
func (e erased[T]) Example() string { return e.arg.Example() }

func (e erased[T]) ParseAny(ctx context.Context, words []string, fromIndex int, argCtx any) Result[any] {
	return Map(e.arg.Parse(ctx, words, fromIndex, argCtx), func(v T) any { return v })
}
