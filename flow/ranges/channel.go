package ranges

import (
	"context"
	"iter"
	"sync"

	"github.com/lguimbarda/rangeflow/flow/predicate"
)

// ChannelSink delivers each range as its own Queue. A new inner Queue is
// pushed onto the outer Queue when a range opens and closed when the range
// closes; the outer Queue is closed by Close. Accept and the consumers may
// run on different goroutines.
//
// Consumers must make sure Close runs on every exit path (typically with
// defer). A sink that is abandoned without Close leaves its open queues
// unclosed and any blocked receiver waiting forever.
type ChannelSink[T any] struct {
	mu      sync.Mutex
	outer   *Queue[*Queue[T]]
	current *Queue[T]
	closed  bool

	// done is closed when the producer started by Produce returns.
	done chan struct{}
}

func NewChannelSink[T any]() *ChannelSink[T] {
	return &ChannelSink[T]{outer: NewQueue[*Queue[T]]()}
}

// Accept is a no-op after Close.
func (s *ChannelSink[T]) Accept(item T, tr Transition) {
	if !tr.Emit {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if tr.Open {
		s.current = NewQueue[T]()
		_ = s.outer.Send(s.current)
	}
	if s.current == nil {
		return
	}
	_ = s.current.Send(item)
	if tr.Close {
		s.current.Close()
		s.current = nil
	}
}

// Close closes the open inner queue, if any, and then the outer queue.
// It may be called any number of times from any goroutine.
func (s *ChannelSink[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
	s.outer.Close()
}

// Closed reports whether Close was called.
func (s *ChannelSink[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Wait blocks until the goroutine started by Produce has stopped reading its
// source. Close the sink first to make the producer stop at its next item.
// For a sink not created by Produce, Wait returns at once.
func (s *ChannelSink[T]) Wait() {
	if s.done != nil {
		<-s.done
	}
}

// Outer returns the queue of ranges.
func (s *ChannelSink[T]) Outer() *Queue[*Queue[T]] { return s.outer }

// Next blocks until the next range is available. It returns false once the
// sink is closed and every range has been handed out, or when ctx is done.
func (s *ChannelSink[T]) Next(ctx context.Context) (*Queue[T], bool) {
	res := s.outer.Recv(ctx)
	if !res.IsValue() {
		return nil, false
	}
	return res.Value(), true
}

// Ranges iterates over the ranges as they arrive.
func (s *ChannelSink[T]) Ranges(ctx context.Context) iter.Seq[*Queue[T]] {
	return s.outer.All(ctx)
}

// Produce runs the engine over src on a new goroutine and returns the sink
// the ranges arrive on. The sink is closed when src is exhausted, when ctx
// is done, or when the consumer closes it, whichever happens first. The
// producer notices a closed sink or a done ctx only when src yields its next
// item; use Wait to know that src is no longer being read.
func Produce[T any](ctx context.Context, first, last predicate.Predicate[T], src iter.Seq[T], opts ...Option) *ChannelSink[T] {
	c := NewCollector(first, last, SinkChannel, opts...)
	sink := c.Channel()
	sink.done = make(chan struct{})

	go func() {
		defer close(sink.done)
		defer c.Close()
		for item := range src {
			if ctx.Err() != nil || sink.Closed() {
				return
			}
			c.Accept(item)
		}
	}()
	return sink
}
