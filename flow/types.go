// Package flow is the user-facing API of rangeflow: stream construction and
// composition, plus AWK-style range extraction over any stream or iterator.
//
// Most users only need this package. flow/ranges holds the range engine
// itself, flow/predicate the boundary normalization, and flow/core the
// low-level stream abstractions.
package flow

import (
	"context"
	"iter"

	"github.com/lguimbarda/rangeflow/flow/core"
	"github.com/lguimbarda/rangeflow/flow/predicate"
	"github.com/lguimbarda/rangeflow/flow/ranges"
)

type (
	// Result is the outcome of producing one item: a Value, an Error or a Sentinel.
	Result[T any] = core.Result[T]

	// Stream is a flow of Results.
	Stream[T any] = core.Stream[T]

	// Transformer turns a Stream of IN into a Stream of OUT.
	Transformer[IN, OUT any] = core.Transformer[IN, OUT]

	// Emitter produces a channel of Results and implements Stream.
	Emitter[T any] = core.Emitter[T]

	// Transmitter transforms one channel of Results into another and implements Transformer.
	Transmitter[IN, OUT any] = core.Transmitter[IN, OUT]

	// Mapper transforms individual items and implements Transformer.
	Mapper[IN, OUT any] = core.Mapper[IN, OUT]

	// Predicate reports whether an item satisfies a range boundary.
	Predicate[T any] = predicate.Predicate[T]

	// Grouper lazily yields the ranges of a source.
	Grouper[T any] = ranges.Grouper[T]

	// Group is one lazily-read range.
	Group[T any] = ranges.Group[T]
)

// ErrEndOfStream is the sentinel error indicating normal stream termination.
var ErrEndOfStream = core.ErrEndOfStream

// ErrInvalidPredicate is returned when a boundary cannot be normalized.
var ErrInvalidPredicate = predicate.ErrInvalidPredicate

func Ok[T any](value T) Result[T] { return core.Ok(value) }

func Err[T any](err error) Result[T] { return core.Err[T](err) }

func EndOfStream[T any]() Result[T] { return core.EndOfStream[T]() }

// Map creates a Mapper from a simple transformation function.
func Map[IN, OUT any](mapFunc func(IN) (OUT, error)) Mapper[IN, OUT] {
	return core.Map(mapFunc)
}

// Emit creates an Emitter from a channel-producing function.
func Emit[T any](emitter func(context.Context) <-chan Result[T]) Emitter[T] {
	return core.Emit(emitter)
}

// Transmit creates a Transmitter from a channel transformation function.
func Transmit[IN, OUT any](transmitter func(context.Context, <-chan Result[IN]) <-chan Result[OUT]) Transmitter[IN, OUT] {
	return core.Transmit(transmitter)
}

// Terminal operations.

// Slice collects all stream values into a slice.
func Slice[T any](ctx context.Context, in Stream[T]) ([]T, error) {
	return core.Slice(ctx, in)
}

// First returns the first value from the stream.
func First[T any](ctx context.Context, in Stream[T]) (T, error) {
	return core.First(ctx, in)
}

// Run executes the stream for side effects only.
func Run[T any](ctx context.Context, in Stream[T]) error {
	return core.Run(ctx, in)
}

// Collect gathers all Results (including errors) into a slice.
func Collect[T any](ctx context.Context, stream Stream[T]) []Result[T] {
	return core.Collect(ctx, stream)
}

// Values returns an iterator over the stream's values.
func Values[T any](ctx context.Context, stream Stream[T]) iter.Seq[T] {
	return core.Values(ctx, stream)
}

// Range extraction.

// Boundaries normalizes a pair of range boundaries. Each may be a regular
// expression source string, a *regexp.Regexp or a func(string) bool.
func Boundaries(first, last any) (Predicate[string], Predicate[string], error) {
	f, err := predicate.Normalize(first)
	if err != nil {
		return nil, nil, err
	}
	l, err := predicate.Normalize(last)
	if err != nil {
		return nil, nil, err
	}
	return f, l, nil
}

// Ranges returns a lazy Grouper over src. The caller must Close it.
func Ranges[T any](first, last Predicate[T], src iter.Seq[T], opts ...RangeOption) *Grouper[T] {
	return ranges.NewGrouper(first, last, src, opts...)
}

// LineRanges is Ranges over text lines with normalized boundaries. An
// invalid boundary is reported before any line is read.
func LineRanges(first, last any, lines iter.Seq[string], opts ...RangeOption) (*Grouper[string], error) {
	f, l, err := Boundaries(first, last)
	if err != nil {
		return nil, err
	}
	return ranges.NewGrouper(f, l, lines, opts...), nil
}

// CollectRanges materializes every range of src.
func CollectRanges[T any](first, last Predicate[T], src iter.Seq[T], opts ...RangeOption) [][]T {
	return ranges.Collect(first, last, src, opts...)
}

// Extract is a Transformer emitting each range of a stream as a slice.
func Extract[T any](first, last Predicate[T], opts ...RangeOption) Transformer[T, []T] {
	return ranges.Extract(first, last, opts...)
}

// Select is a Transformer passing through only the items inside ranges.
func Select[T any](first, last Predicate[T], opts ...RangeOption) Transformer[T, T] {
	return ranges.Select(first, last, opts...)
}

// RangeOption configures range extraction; see the ranges package.
type RangeOption = ranges.Option
