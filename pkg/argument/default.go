package argument

import "context"

// Supplier produces a default value at parse time.
type Supplier[T any] func(ctx context.Context, argCtx any) T

// WithDefault returns an argument that turns every failure of arg into a
// success carrying value. No words are consumed in that case.
func WithDefault[T any](arg Argument[T], value T) Argument[T] {
	return &defaulted[T]{arg: arg, supply: func(context.Context, any) T { return value }}
}

// WithDefaultFunc is WithDefault with a lazily supplied value.
func WithDefaultFunc[T any](arg Argument[T], supply Supplier[T]) Argument[T] {
	return &defaulted[T]{arg: arg, supply: supply}
}

type defaulted[T any] struct {
	arg    Argument[T]
	supply Supplier[T]
}

func (d *defaulted[T]) Name() string    { return d.arg.Name() }
func (d *defaulted[T]) Example() string { return d.arg.Example() }

func (d *defaulted[T]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[T] {
	result := d.arg.Parse(ctx, words, fromIndex, argCtx)
	if result.Ok() {
		return result
	}
	return Success(d.supply(ctx, argCtx), 0)
}

// WithDefaultOptional unwraps a nullable argument: failures and successes
// carrying nil are both replaced by value.
func WithDefaultOptional[T any](arg Argument[*T], value T) Argument[T] {
	return WithDefaultOptionalFunc(arg, func(context.Context, any) T { return value })
}

// WithDefaultOptionalFunc is WithDefaultOptional with a lazily supplied value.
func WithDefaultOptionalFunc[T any](arg Argument[*T], supply Supplier[T]) Argument[T] {
	return &defaultedOptional[T]{arg: arg, supply: supply}
}

type defaultedOptional[T any] struct {
	arg    Argument[*T]
	supply Supplier[T]
}

func (d *defaultedOptional[T]) Name() string    { return d.arg.Name() }
func (d *defaultedOptional[T]) Example() string { return d.arg.Example() }

func (d *defaultedOptional[T]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[T] {
	result := d.arg.Parse(ctx, words, fromIndex, argCtx)
	switch {
	case !result.Ok():
		return Success(d.supply(ctx, argCtx), 0)
	case result.Value == nil:
		return Success(d.supply(ctx, argCtx), result.WordsTaken)
	default:
		return Success(*result.Value, result.WordsTaken)
	}
}

// Optional returns a nullable argument that yields nil, consuming nothing,
// when arg fails.
func Optional[T any](arg Argument[T]) Argument[*T] {
	return &optional[T]{arg: arg}
}

type optional[T any] struct {
	arg Argument[T]
}

func (o *optional[T]) Name() string    { return o.arg.Name() }
func (o *optional[T]) Example() string { return o.arg.Example() }

func (o *optional[T]) Parse(ctx context.Context, words []string, fromIndex int, argCtx any) Result[*T] {
	result := o.arg.Parse(ctx, words, fromIndex, argCtx)
	if !result.Ok() {
		return Success[*T](nil, 0)
	}
	value := result.Value
	return Success(&value, result.WordsTaken)
}
