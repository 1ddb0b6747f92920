package core

import (
	"context"
	"errors"
)

// Terminal functions consume a stream and produce a final result.

// ErrEmptyStream is returned by First when the stream produced no value.
var ErrEmptyStream = errors.New("stream is empty")

// Slice collects the stream's values. It stops at the first error Result and
// returns that error. Sentinels are skipped.
func Slice[OUT any](ctx context.Context, in Stream[OUT]) ([]OUT, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result []OUT
	for res := range in.Emit(ctx) {
		switch {
		case res.IsError():
			return nil, res.Error()
		case res.IsSentinel():
			continue
		}
		result = append(result, res.Value())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// First returns the first value of the stream and cancels the rest.
func First[OUT any](ctx context.Context, in Stream[OUT]) (OUT, error) {
	var zero OUT

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for res := range in.Emit(ctx) {
		switch {
		case res.IsError():
			return zero, res.Error()
		case res.IsSentinel():
			continue
		}
		return res.Value(), nil
	}
	return zero, ErrEmptyStream
}

// Run drains the stream for its side effects and returns the first error.
func Run[OUT any](ctx context.Context, in Stream[OUT]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for res := range in.Emit(ctx) {
		if res.IsError() {
			return res.Error()
		}
	}
	return nil
}
