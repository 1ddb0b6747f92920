package ranges

import (
	"github.com/rs/zerolog"

	"github.com/lguimbarda/rangeflow/flow/predicate"
)

// State is the position of the engine relative to a range.
type State uint8

const (
	// Outside means no range is open; only the first predicate is evaluated.
	Outside State = iota
	// Inside means a range is open; only the last predicate is evaluated.
	Inside
)

func (s State) String() string {
	switch s {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "unknown"
	}
}

// Transition is the outcome of classifying one item.
type Transition struct {
	Emit  bool  // the item belongs to a range
	Open  bool  // the item opened a range
	Close bool  // the item closed a range
	Next  State // state after the item
}

// Machine holds the two boundary predicates. Classify is a pure function of
// its arguments, so a Machine is safe to share.
type Machine[T any] struct {
	first predicate.Predicate[T]
	last  predicate.Predicate[T]
}

// NewMachine panics if either predicate is nil.
func NewMachine[T any](first, last predicate.Predicate[T]) Machine[T] {
	if first == nil || last == nil {
		panic("ranges: first and last predicates cannot be nil")
	}
	return Machine[T]{first: first, last: last}
}

// Classify applies the transition table:
//
//	Outside, !first        -> no emit, Outside
//	Outside, first && last -> emit (open+close), Outside
//	Outside, first         -> emit (open), Inside
//	Inside,  !last         -> emit, Inside
//	Inside,  last          -> emit (close), Outside
//
// A first match while Inside does not start a nested range, and last is
// never evaluated while Outside unless first matched the same item.
func (m Machine[T]) Classify(state State, item T) Transition {
	if state == Inside {
		if m.last(item) {
			return Transition{Emit: true, Close: true, Next: Outside}
		}
		return Transition{Emit: true, Next: Inside}
	}

	if !m.first(item) {
		return Transition{Next: Outside}
	}
	if m.last(item) {
		return Transition{Emit: true, Open: true, Close: true, Next: Outside}
	}
	return Transition{Emit: true, Open: true, Next: Inside}
}

// Tracker is a Machine plus the current State. It reports range lifecycle
// events to the configured Observer and logger. Not safe for concurrent use.
type Tracker[T any] struct {
	machine Machine[T]
	state   State
	ranges  uint64
	length  int
	obs     Observer
	log     zerolog.Logger
}

// NewTracker creates a Tracker in the Outside state.
func NewTracker[T any](first, last predicate.Predicate[T], opts ...Option) *Tracker[T] {
	return newTracker(NewMachine(first, last), newConfig(opts))
}

func newTracker[T any](m Machine[T], cfg config) *Tracker[T] {
	return &Tracker[T]{machine: m, obs: cfg.observer, log: cfg.logger}
}

// State returns the current state.
func (t *Tracker[T]) State() State { return t.state }

// Ranges returns how many ranges have been opened so far.
func (t *Tracker[T]) Ranges() uint64 { return t.ranges }

// Step classifies item and advances the state.
func (t *Tracker[T]) Step(item T) Transition {
	tr := t.machine.Classify(t.state, item)
	t.state = tr.Next

	if !tr.Emit {
		t.obs.ItemSkipped()
		return tr
	}

	t.obs.ItemMatched()
	if tr.Open {
		t.ranges++
		t.length = 0
		t.obs.RangeOpened()
		t.log.Debug().Uint64("range", t.ranges).Msg("range opened")
	}
	t.length++
	if tr.Close {
		t.obs.RangeClosed(t.length, false)
		t.log.Debug().Uint64("range", t.ranges).Int("length", t.length).Msg("range closed")
		t.length = 0
	}
	return tr
}

// Finish marks the end of input. It reports whether a range was still open,
// in which case that range is retired as truncated.
func (t *Tracker[T]) Finish() bool {
	if t.state != Inside {
		return false
	}
	t.obs.RangeClosed(t.length, true)
	t.log.Debug().Uint64("range", t.ranges).Int("length", t.length).Msg("range truncated by end of input")
	t.state = Outside
	t.length = 0
	return true
}
