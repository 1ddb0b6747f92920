package ranges

import (
	"iter"

	"github.com/rs/zerolog"

	"github.com/lguimbarda/rangeflow/flow/predicate"
)

// Grouper is a lazy, single-pass sequence of lazy, single-pass Groups over
// one forward-only cursor.
//
// At most one Group reads the cursor at a time: the active one. Calling Next
// while the active Group is not drained fast-forwards the cursor to that
// Group's last item before looking for the next first match, so the cursor
// stays aligned with range boundaries however much of each Group the
// consumer read. The fast-forwarded items are appended to the Group's buffer
// (or dropped with WithDiscardSkipped).
//
// A Grouper and its Groups must be used from a single goroutine. Close
// releases the source; it must be called if iteration stops before the
// source is exhausted.
type Grouper[T any] struct {
	machine Machine[T]
	next    func() (T, bool)
	stop    func()

	// active is the Group currently allowed to read the cursor. Only the
	// Grouper reassigns it.
	active    *span[T]
	ordinal   uint64
	exhausted bool
	closed    bool
	stopped   bool

	discardSkipped bool
	obs            Observer
	log            zerolog.Logger
}

// span is the per-range state. A Group is a handle to one; the Grouper holds
// a reference only while the span is active.
type span[T any] struct {
	ordinal uint64
	buf     []T
	head    int
	length  int
}

func (s *span[T]) push(item T) {
	s.buf = append(s.buf, item)
}

func (s *span[T]) pop() (T, bool) {
	var zero T
	if s.head == len(s.buf) {
		return zero, false
	}
	item := s.buf[s.head]
	s.buf[s.head] = zero
	s.head++
	if s.head == len(s.buf) {
		s.buf = s.buf[:0]
		s.head = 0
	}
	return item, true
}

// NewGrouper creates a Grouper reading src. It panics if either predicate
// is nil.
func NewGrouper[T any](first, last predicate.Predicate[T], src iter.Seq[T], opts ...Option) *Grouper[T] {
	machine := NewMachine(first, last)
	next, stop := iter.Pull(src)
	return newGrouper(machine, next, stop, newConfig(opts))
}

// NewPullGrouper creates a Grouper over a pull function such as the one
// returned by iter.Pull. stop may be nil; otherwise it is called exactly once,
// when next reports the end or on Close, whichever comes first.
func NewPullGrouper[T any](first, last predicate.Predicate[T], next func() (T, bool), stop func(), opts ...Option) *Grouper[T] {
	if stop == nil {
		stop = func() {}
	}
	return newGrouper(NewMachine(first, last), next, stop, newConfig(opts))
}

func newGrouper[T any](m Machine[T], next func() (T, bool), stop func(), cfg config) *Grouper[T] {
	return &Grouper[T]{
		machine:        m,
		next:           next,
		stop:           stop,
		discardSkipped: cfg.discardSkipped,
		obs:            cfg.observer,
		log:            cfg.logger,
	}
}

// Next returns the next Group, or false when the input is exhausted. Once it
// has returned false it keeps returning false.
func (g *Grouper[T]) Next() (*Group[T], bool) {
	if g.closed {
		return nil, false
	}
	if g.active != nil {
		g.skipAhead()
	}

	for {
		item, ok := g.pull()
		if !ok {
			return nil, false
		}
		tr := g.machine.Classify(Outside, item)
		if !tr.Emit {
			g.obs.ItemSkipped()
			continue
		}

		g.ordinal++
		s := &span[T]{ordinal: g.ordinal, length: 1}
		s.push(item)

		g.obs.ItemMatched()
		g.obs.RangeOpened()
		g.log.Debug().Uint64("range", s.ordinal).Msg("range opened")

		if tr.Next == Inside {
			g.active = s
		} else {
			g.obs.RangeClosed(1, false)
			g.log.Debug().Uint64("range", s.ordinal).Int("length", 1).Msg("range closed")
		}
		return &Group[T]{owner: g, span: s}, true
	}
}

// All iterates over the remaining Groups.
func (g *Grouper[T]) All() iter.Seq[*Group[T]] {
	return func(yield func(*Group[T]) bool) {
		for {
			group, ok := g.Next()
			if !ok || !yield(group) {
				return
			}
		}
	}
}

// Close releases the source. Further calls to Next report no more Groups and
// an undrained active Group ends after its buffered items. Close is
// idempotent.
func (g *Grouper[T]) Close() {
	if g.closed {
		return
	}
	g.closed = true
	if g.active != nil {
		g.retire(true)
	}
	g.exhausted = true
	g.release()
}

// advance reads the next item of s from the cursor. It is only valid while
// s is the active span.
func (g *Grouper[T]) advance(s *span[T]) (T, bool) {
	var zero T
	if g.active != s {
		return zero, false
	}

	item, ok := g.pull()
	if !ok {
		g.retire(true)
		return zero, false
	}
	s.length++
	g.obs.ItemMatched()
	if g.machine.Classify(Inside, item).Close {
		g.retire(false)
	}
	return item, true
}

// skipAhead moves the cursor past the end of the active span.
func (g *Grouper[T]) skipAhead() {
	s := g.active
	g.log.Debug().Uint64("range", s.ordinal).Bool("discard", g.discardSkipped).Msg("fast-forwarding undrained range")

	for g.active == s {
		item, ok := g.pull()
		if !ok {
			g.retire(true)
			return
		}
		s.length++
		if g.discardSkipped {
			g.obs.ItemSkipped()
		} else {
			s.push(item)
			g.obs.ItemMatched()
		}
		if g.machine.Classify(Inside, item).Close {
			g.retire(false)
		}
	}
}

func (g *Grouper[T]) retire(truncated bool) {
	s := g.active
	g.active = nil
	g.obs.RangeClosed(s.length, truncated)
	g.log.Debug().
		Uint64("range", s.ordinal).
		Int("length", s.length).
		Bool("truncated", truncated).
		Msg("range closed")
}

func (g *Grouper[T]) release() {
	if g.stopped {
		return
	}
	g.stopped = true
	g.stop()
}

func (g *Grouper[T]) pull() (T, bool) {
	var zero T
	if g.exhausted {
		return zero, false
	}
	item, ok := g.next()
	if !ok {
		g.exhausted = true
		g.release()
		return zero, false
	}
	return item, true
}

// Group is one range produced by a Grouper. It yields its buffered items
// first and then reads the shared cursor while it is the active range.
type Group[T any] struct {
	owner *Grouper[T]
	span  *span[T]
}

// Ordinal returns the 1-based position of the range in the input.
func (r *Group[T]) Ordinal() uint64 { return r.span.ordinal }

// Next returns the next item of the range, or false at its end. A range cut
// short by the end of input simply ends.
func (r *Group[T]) Next() (T, bool) {
	if item, ok := r.span.pop(); ok {
		return item, true
	}
	return r.owner.advance(r.span)
}

// All iterates over the remaining items of the range.
func (r *Group[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := r.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Slice drains the range.
func (r *Group[T]) Slice() []T {
	var out []T
	for item := range r.All() {
		out = append(out, item)
	}
	return out
}
