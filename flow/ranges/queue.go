package ranges

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/lguimbarda/rangeflow/flow/core"
)

// ErrClosed is returned by Queue.Send after Close.
var ErrClosed = errors.New("queue closed")

// compactThreshold is the number of consumed slots after which the backing
// slice is compacted.
const compactThreshold = 64

// Queue is an unbounded FIFO hand-off between goroutines with an explicit
// close. Receivers get core.Ok(item) for items and core.EndOfStream once the
// queue is closed and drained, so the close marker can never collide with an
// item. Send never blocks.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool
	notify chan struct{}
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{notify: make(chan struct{}, 1)}
}

// Send appends item. It returns ErrClosed if the queue was closed.
func (q *Queue[T]) Send(item T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.wake()
	return nil
}

// Close marks the end of the queue. It is idempotent and safe to call from
// any goroutine.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	already := q.closed
	q.closed = true
	q.mu.Unlock()

	if !already {
		q.wake()
	}
}

// Closed reports whether Close was called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// TryRecv returns a buffered item or the end-of-stream sentinel without
// blocking. ok is false when the queue is open and empty.
func (q *Queue[T]) TryRecv() (res core.Result[T], ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Recv blocks until an item is available, the queue is closed and drained
// (core.EndOfStream), or ctx is done (an error Result carrying ctx.Err()).
func (q *Queue[T]) Recv(ctx context.Context) core.Result[T] {
	for {
		q.mu.Lock()
		res, ok := q.popLocked()
		more := ok && (q.head < len(q.items) || q.closed)
		q.mu.Unlock()

		if ok {
			// Pass the wake-up on so other receivers see the rest.
			if more {
				q.wake()
			}
			return res
		}

		select {
		case <-ctx.Done():
			return core.Err[T](ctx.Err())
		case <-q.notify:
		}
	}
}

// All returns an iterator that receives until the queue is closed and
// drained or ctx is done.
func (q *Queue[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			res := q.Recv(ctx)
			if !res.IsValue() {
				return
			}
			if !yield(res.Value()) {
				return
			}
		}
	}
}

// Stream adapts the queue to a core.Stream. A cancelled context ends the
// stream with an error Result.
func (q *Queue[T]) Stream() core.Stream[T] {
	return core.Emit(func(ctx context.Context) <-chan core.Result[T] {
		out := make(chan core.Result[T])
		go func() {
			defer close(out)
			for {
				res := q.Recv(ctx)
				if res.IsSentinel() {
					return
				}
				if !core.Send(ctx, out, res) || res.IsError() {
					return
				}
			}
		}()
		return out
	})
}

func (q *Queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *Queue[T]) popLocked() (core.Result[T], bool) {
	if q.head < len(q.items) {
		item := q.items[q.head]
		var zero T
		q.items[q.head] = zero
		q.head++

		switch {
		case q.head == len(q.items):
			q.items = q.items[:0]
			q.head = 0
		case q.head >= compactThreshold && q.head*2 >= len(q.items):
			n := copy(q.items, q.items[q.head:])
			clear(q.items[n:])
			q.items = q.items[:n]
			q.head = 0
		}
		return core.Ok(item), true
	}
	if q.closed {
		return core.EndOfStream[T](), true
	}
	return core.Result[T]{}, false
}
