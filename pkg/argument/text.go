package argument

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

var exampleWords = []string{"epeolatry", "functionalism", "koan"}

// Word returns an argument that accepts any single word.
func Word() Argument[string] {
	return NewSingleWord("Word",
		func() string { return exampleWords[rand.IntN(len(exampleWords))] },
		func(_ context.Context, word string, _ any) (string, error) {
			return word, nil
		})
}

// Text returns an argument that consumes every remaining word, joined by a single space.
func Text() Argument[string] {
	return textArgument{}
}

type textArgument struct{}

func (textArgument) Name() string    { return "Text" }
func (textArgument) Example() string { return "lorem ipsum dolor sit amet" }

func (textArgument) Parse(_ context.Context, words []string, fromIndex int, _ any) Result[string] {
	if fromIndex < 0 || fromIndex >= len(words) {
		return Fail[string](MissingWord, 0)
	}
	rest := words[fromIndex:]
	return Success(strings.Join(rest, " "), len(rest))
}

// Whitelist restricts a string argument to a fixed set of values.
func Whitelist(arg Argument[string], values ...string) Argument[string] {
	return &whitelist{arg: arg, values: values}
}

type whitelist struct {
	arg    Argument[string]
	values []string
}

func (w *whitelist) Name() string { return w.arg.Name() }

func (w *whitelist) Example() string {
	if len(w.values) == 0 {
		return w.arg.Example()
	}
	return w.values[rand.IntN(len(w.values))]
}

func (w *whitelist) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[string] {
	result := w.arg.Parse(ctx, words, fromIndex, argCtx)
	if !result.Ok() {
		return result
	}
	if !slices.Contains(w.values, result.Value) {
		return Fail[string](fmt.Sprintf("Expected one of: %s.", strings.Join(w.values, ", ")), 0)
	}
	return result
}

// Named returns arg under a different display name.
func Named[T any](arg Argument[T], name string) Argument[T] {
	return &named[T]{arg: arg, name: name}
}

type named[T any] struct {
	arg  Argument[T]
	name string
}

func (n *named[T]) Name() string    { return n.name }
func (n *named[T]) Example() string { return n.arg.Example() }

func (n *named[T]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[T] {
	return n.arg.Parse(ctx, words, fromIndex, argCtx)
}
