package argument

import "context"

// MissingWord is the failure reason used when an argument runs out of input.
const MissingWord = "Expected an argument."

// WordParser converts a single word into a value.
type WordParser[T any] func(ctx context.Context, word string, argCtx any) (T, error)

// SingleWord is an Argument that consumes exactly one word.
type SingleWord[T any] struct {
	name    string
	example func() string
	parse   WordParser[T]
}

// NewSingleWord creates a single-word argument.
func NewSingleWord[T any](name string, example func() string, parse WordParser[T]) *SingleWord[T] {
	return &SingleWord[T]{name: name, example: example, parse: parse}
}

// Name returns the argument name.
func (a *SingleWord[T]) Name() string {
	return a.name
}

// Example returns an example word.
func (a *SingleWord[T]) Example() string {
	if a.example == nil {
		return ""
	}
	return a.example()
}

// Parse implements Argument.
func (a *SingleWord[T]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[T] {
	if fromIndex < 0 || fromIndex >= len(words) {
		return Fail[T](MissingWord, 0)
	}

	value, err := a.parse(ctx, words[fromIndex], argCtx)
	if err != nil {
		return Fail[T](err.Error(), 0)
	}
	return Success(value, 1)
}
