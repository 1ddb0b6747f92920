package core

import (
	"errors"
	"fmt"
)

// Result is the element type carried by every channel in the framework.
// It is a sum type with three states:
//   - Value: an item travelling downstream (IsValue() returns true)
//   - Error: a recoverable failure; the stream keeps going (IsError() returns true)
//   - Sentinel: a control signal such as end-of-stream (IsSentinel() returns true)
//
// Closing a hand-off is signalled with a Sentinel, never with a reserved item
// value, so no legitimate item can be mistaken for a close marker.
type Result[OUT any] struct {
	value      OUT
	err        error
	isSentinel bool
}

// NewResult creates a Result with explicit control over all fields.
// Prefer Ok, Err, Sentinel or EndOfStream.
func NewResult[OUT any](value OUT, err error, isSentinel bool) Result[OUT] {
	return Result[OUT]{value: value, err: err, isSentinel: isSentinel}
}

// Ok wraps a value.
func Ok[OUT any](value OUT) Result[OUT] {
	return Result[OUT]{value: value}
}

// Err wraps a recoverable error.
func Err[OUT any](err error) Result[OUT] {
	return Result[OUT]{err: err}
}

// Sentinel creates a control signal with an optional descriptive error.
func Sentinel[OUT any](err error) Result[OUT] {
	return Result[OUT]{err: err, isSentinel: true}
}

// ErrEndOfStream is the sentinel error indicating normal stream termination.
var ErrEndOfStream = errors.New("end of stream")

// EndOfStream is the canonical "closed" marker.
func EndOfStream[OUT any]() Result[OUT] {
	return Result[OUT]{err: ErrEndOfStream, isSentinel: true}
}

// IsValue reports whether the Result carries an item.
func (r Result[OUT]) IsValue() bool {
	return r.err == nil && !r.isSentinel
}

// IsSentinel reports whether the Result is a control signal.
func (r Result[OUT]) IsSentinel() bool {
	return r.isSentinel
}

// IsError reports whether the Result carries a processing error.
func (r Result[OUT]) IsError() bool {
	return r.err != nil && !r.isSentinel
}

// IsEndOfStream reports whether the Result is the end-of-stream sentinel.
func (r Result[OUT]) IsEndOfStream() bool {
	return r.isSentinel && errors.Is(r.err, ErrEndOfStream)
}

// Value returns the contained value, or the zero value for errors and sentinels.
func (r Result[OUT]) Value() OUT {
	return r.value
}

// Error returns the error of an error Result and nil otherwise.
func (r Result[OUT]) Error() error {
	if r.isSentinel {
		return nil
	}
	return r.err
}

// Sentinel returns the context error of a sentinel Result and nil otherwise.
func (r Result[OUT]) Sentinel() error {
	if !r.isSentinel {
		return nil
	}
	return r.err
}

// Unwrap returns the value and the raw error together.
func (r Result[OUT]) Unwrap() (OUT, error) {
	return r.value, r.err
}

func (r Result[OUT]) String() string {
	switch {
	case r.IsSentinel():
		return fmt.Sprintf("Sentinel(%v)", r.err)
	case r.IsError():
		return fmt.Sprintf("Err(%v)", r.err)
	default:
		return fmt.Sprintf("Ok(%v)", r.value)
	}
}
