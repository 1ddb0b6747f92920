// Package core defines the stream abstractions the rest of the module is
// built on: the Result sum type, Streams and Transformers, the channel-level
// Emitter and Transmitter, and terminal operations.
//
// NOTE: this package should have no dependencies outside the standard
// library, including other flow packages.
package core

import (
	"context"
	"iter"
)

// Stream represents a flow of data. Emit starts the producer and returns the
// channel it writes to; the producer closes the channel when it is done or
// when the context is cancelled.
type Stream[OUT any] interface {
	Emit(context.Context) <-chan Result[OUT]

	Collect(context.Context) []Result[OUT]
	All(context.Context) iter.Seq[Result[OUT]]
}

// Collect drains the stream and returns every Result, errors included.
func Collect[OUT any](ctx context.Context, stream Stream[OUT]) []Result[OUT] {
	var results []Result[OUT]
	for res := range stream.Emit(ctx) {
		results = append(results, res)
	}
	return results
}

// All returns an iterator over the stream's Results. Breaking out of the
// loop cancels the producer.
func All[OUT any](ctx context.Context, stream Stream[OUT]) iter.Seq[Result[OUT]] {
	return func(yield func(Result[OUT]) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		for res := range stream.Emit(ctx) {
			if !yield(res) {
				return
			}
		}
	}
}

// Values returns an iterator over the stream's values only. Errors and
// sentinels are skipped.
func Values[OUT any](ctx context.Context, stream Stream[OUT]) iter.Seq[OUT] {
	return func(yield func(OUT) bool) {
		for res := range All(ctx, stream) {
			if !res.IsValue() {
				continue
			}
			if !yield(res.Value()) {
				return
			}
		}
	}
}

// Transformer turns a Stream of IN into a Stream of OUT.
type Transformer[IN, OUT any] interface {
	Apply(context.Context, Stream[IN]) Stream[OUT]
}
