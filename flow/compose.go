package flow

import (
	"context"
)

// Through chains two transformers: t1 then t2.
func Through[IN, MID, OUT any](t1 Transformer[IN, MID], t2 Transformer[MID, OUT]) Transformer[IN, OUT] {
	return Transmit(func(ctx context.Context, in <-chan Result[IN]) <-chan Result[OUT] {
		inStream := Emit(func(context.Context) <-chan Result[IN] { return in })
		return t2.Apply(ctx, t1.Apply(ctx, inStream)).Emit(ctx)
	})
}

// Pipe applies same-typed transformers to a stream in order.
func Pipe[T any](ctx context.Context, source Stream[T], transformers ...Transformer[T, T]) Stream[T] {
	result := source
	for _, t := range transformers {
		result = t.Apply(ctx, result)
	}
	return result
}

// Apply is transformer.Apply(ctx, stream), read left to right.
func Apply[IN, OUT any](ctx context.Context, stream Stream[IN], transformer Transformer[IN, OUT]) Stream[OUT] {
	return transformer.Apply(ctx, stream)
}
