package ranges

import (
	"iter"

	"github.com/lguimbarda/rangeflow/flow/predicate"
)

// Filter calls an action for every item that belongs to a range, in input
// order and on the caller's goroutine. It does no buffering.
type Filter[T any] struct {
	tracker *Tracker[T]
	action  func(T) error
}

// NewFilter panics if action or either predicate is nil.
func NewFilter[T any](first, last predicate.Predicate[T], action func(T) error, opts ...Option) *Filter[T] {
	if action == nil {
		panic("ranges: filter action cannot be nil")
	}
	return &Filter[T]{
		tracker: NewTracker(first, last, opts...),
		action:  action,
	}
}

// Apply classifies item and runs the action when it is part of a range.
// An error from the action is returned unchanged; the Filter must then be
// discarded.
func (f *Filter[T]) Apply(item T) error {
	if tr := f.tracker.Step(item); tr.Emit {
		return f.action(item)
	}
	return nil
}

// State returns the current state of the underlying machine.
func (f *Filter[T]) State() State { return f.tracker.State() }

// Run applies every item of src and then marks the end of input.
func (f *Filter[T]) Run(src iter.Seq[T]) error {
	for item := range src {
		if err := f.Apply(item); err != nil {
			return err
		}
	}
	f.tracker.Finish()
	return nil
}
