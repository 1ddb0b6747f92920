package ranges

import (
	"context"

	"github.com/lguimbarda/rangeflow/flow/core"
	"github.com/lguimbarda/rangeflow/flow/predicate"
)

// Extract creates a Transformer that emits each range as a slice. A range
// still open when the input ends is emitted as it stands. Upstream errors
// pass through; sentinels are dropped.
func Extract[T any](first, last predicate.Predicate[T], opts ...Option) core.Transformer[T, []T] {
	machine := NewMachine(first, last)
	cfg := newConfig(opts)

	return core.Transmit(func(ctx context.Context, in <-chan core.Result[T]) <-chan core.Result[[]T] {
		out := make(chan core.Result[[]T], cfg.bufferSize)
		go func() {
			defer close(out)

			tracker := newTracker(machine, cfg)
			var current []T

			for res := range in {
				switch {
				case res.IsError():
					if !core.Send(ctx, out, core.Err[[]T](res.Error())) {
						return
					}
					continue
				case res.IsSentinel():
					continue
				}

				tr := tracker.Step(res.Value())
				if !tr.Emit {
					continue
				}
				current = append(current, res.Value())
				if tr.Close {
					if !core.Send(ctx, out, core.Ok(current)) {
						return
					}
					current = nil
				}
			}

			if tracker.Finish() && ctx.Err() == nil {
				core.Send(ctx, out, core.Ok(current))
			}
		}()
		return out
	})
}

// Select creates a Transformer that passes through only the items that
// belong to a range, flattened. Upstream errors pass through; sentinels are
// dropped.
func Select[T any](first, last predicate.Predicate[T], opts ...Option) core.Transformer[T, T] {
	machine := NewMachine(first, last)
	cfg := newConfig(opts)

	return core.Transmit(func(ctx context.Context, in <-chan core.Result[T]) <-chan core.Result[T] {
		out := make(chan core.Result[T], cfg.bufferSize)
		go func() {
			defer close(out)

			tracker := newTracker(machine, cfg)
			for res := range in {
				if res.IsSentinel() {
					continue
				}
				if res.IsValue() && !tracker.Step(res.Value()).Emit {
					continue
				}
				if !core.Send(ctx, out, res) {
					return
				}
			}
			tracker.Finish()
		}()
		return out
	})
}
