package processor

import (
	"context"

	"nekocmd/pkg/argument"
)

// ArgumentsResult is the outcome of parsing a command's arguments. It is
// one of ArgumentsSuccess, TooManyWords or ArgumentsFailure.
type ArgumentsResult[A any] interface {
	argumentsResult()
}

// ArgumentsSuccess holds the parsed values in declared order.
type ArgumentsSuccess[A any] struct {
	Context    A
	Items      []any
	WordsTaken int
}

// TooManyWords reports input left over after every argument succeeded.
type TooManyWords[A any] struct {
	Context    A
	Items      []any
	Words      []string
	WordsTaken int
}

// ArgumentsFailure reports the argument that rejected its input.
// WordsTaken is the cursor position where the failing argument started.
type ArgumentsFailure[A any] struct {
	Context       A
	Failure       *argument.Failure
	Argument      argument.Any
	Arguments     []argument.Any
	ArgumentIndex int
	Words         []string
	WordsTaken    int
}

// AtWord returns the absolute index of the failing word.
func (f ArgumentsFailure[A]) AtWord() int {
	return f.WordsTaken + f.Failure.AtWord
}

func (ArgumentsSuccess[A]) argumentsResult() {}
func (TooManyWords[A]) argumentsResult()     {}
func (ArgumentsFailure[A]) argumentsResult() {}

// ParseArguments runs args over words with a single cursor starting at 0.
func ParseArguments[A any](ctx context.Context, argCtx A, words []string, args []argument.Any) ArgumentsResult[A] {
	cursor := 0
	items := make([]any, 0, len(args))

	for i, arg := range args {
		result := arg.ParseAny(ctx, words, cursor, argCtx)
		if !result.Ok() {
			return ArgumentsFailure[A]{
				Context:       argCtx,
				Failure:       result.Failure,
				Argument:      arg,
				Arguments:     args,
				ArgumentIndex: i,
				Words:         words,
				WordsTaken:    cursor,
			}
		}
		cursor += result.WordsTaken
		items = append(items, result.Value)
	}

	if cursor != len(words) {
		return TooManyWords[A]{Context: argCtx, Items: items, Words: words, WordsTaken: cursor}
	}
	return ArgumentsSuccess[A]{Context: argCtx, Items: items, WordsTaken: cursor}
}
