package core

import (
	"context"
	"iter"
)

// Emitter is a function that produces a channel of Results. It is the
// channel-level implementation of Stream.
type Emitter[OUT any] func(context.Context) <-chan Result[OUT]

func Emit[OUT any](emitter func(context.Context) <-chan Result[OUT]) Emitter[OUT] {
	return emitter
}

func (e Emitter[OUT]) Emit(ctx context.Context) <-chan Result[OUT] {
	return e(ctx)
}

func (e Emitter[OUT]) Collect(ctx context.Context) []Result[OUT] {
	return Collect(ctx, e)
}

func (e Emitter[OUT]) All(ctx context.Context) iter.Seq[Result[OUT]] {
	return All(ctx, e)
}

// Transmitter is a function that transforms one channel of Results into
// another. It is the channel-level implementation of Transformer.
type Transmitter[IN, OUT any] func(context.Context, <-chan Result[IN]) <-chan Result[OUT]

func Transmit[IN, OUT any](transmitter func(context.Context, <-chan Result[IN]) <-chan Result[OUT]) Transmitter[IN, OUT] {
	return transmitter
}

func (t Transmitter[IN, OUT]) Apply(ctx context.Context, in Stream[IN]) Stream[OUT] {
	return Emit(func(ctx context.Context) <-chan Result[OUT] {
		return t(ctx, in.Emit(ctx))
	})
}

// Send delivers res on out unless ctx is cancelled first. It reports whether
// the value was delivered.
func Send[OUT any](ctx context.Context, out chan<- Result[OUT], res Result[OUT]) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- res:
		return true
	}
}
