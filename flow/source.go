package flow

import (
	"context"
	"iter"
)

// FromSlice creates a Stream that emits each element of items.
func FromSlice[T any](items []T) Stream[T] {
	const maxBufferSize = 512

	return Emit(func(ctx context.Context) <-chan Result[T] {
		// Small slices fit the channel buffer; no goroutine needed.
		if len(items) <= maxBufferSize {
			out := make(chan Result[T], len(items))
			for _, item := range items {
				out <- Ok(item)
			}
			close(out)
			return out
		}

		out := make(chan Result[T], maxBufferSize)
		go func() {
			defer close(out)
			for _, item := range items {
				select {
				case <-ctx.Done():
					return
				case out <- Ok(item):
				}
			}
		}()
		return out
	})
}

// FromChannel creates a Stream of the values received from ch. The stream
// completes when ch is closed; closing it is the caller's job.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return Emit(func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T])
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-ch:
					if !ok {
						return
					}
					select {
					case <-ctx.Done():
						return
					case out <- Ok(item):
					}
				}
			}
		}()
		return out
	})
}

// FromIter creates a Stream from an iterator.
func FromIter[T any](seq iter.Seq[T]) Stream[T] {
	return Emit(func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T])
		go func() {
			defer close(out)
			for item := range seq {
				select {
				case <-ctx.Done():
					return
				case out <- Ok(item):
				}
			}
		}()
		return out
	})
}

// Empty creates a Stream that completes immediately.
func Empty[T any]() Stream[T] {
	return Emit(func(context.Context) <-chan Result[T] {
		out := make(chan Result[T])
		close(out)
		return out
	})
}

// Generate creates a Stream from fn, called until it reports false. An error
// from fn becomes an error Result and generation continues.
func Generate[T any](fn func() (T, bool, error)) Stream[T] {
	return Emit(func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T])
		go func() {
			defer close(out)
			for {
				value, ok, err := fn()
				if err != nil {
					select {
					case <-ctx.Done():
						return
					case out <- Err[T](err):
					}
					continue
				}
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- Ok(value):
				}
			}
		}()
		return out
	})
}
