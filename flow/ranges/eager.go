package ranges

import "sync"

// Sink receives every classified item. Accept is only called for items that
// belong to a range; the Transition tells the sink whether the item opened
// or closed one.
type Sink[T any] interface {
	Accept(item T, tr Transition)
	Close()
}

// EagerSink materializes ranges in memory. Readers may call Ranges while
// items are still being accepted: they see a growing, never-shrinking
// snapshot.
type EagerSink[T any] struct {
	mu     sync.RWMutex
	output [][]T
	open   bool
}

func NewEagerSink[T any]() *EagerSink[T] {
	return &EagerSink[T]{}
}

func (s *EagerSink[T]) Accept(item T, tr Transition) {
	if !tr.Emit {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if tr.Open {
		s.output = append(s.output, nil)
		s.open = true
	}
	if !s.open {
		return
	}
	last := len(s.output) - 1
	s.output[last] = append(s.output[last], item)
	if tr.Close {
		s.open = false
	}
}

// Close stops appending to the open range, if any. Collected data is kept.
func (s *EagerSink[T]) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// Ranges returns a copy of everything collected so far.
func (s *EagerSink[T]) Ranges() [][]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]T, len(s.output))
	for i, r := range s.output {
		out[i] = append([]T(nil), r...)
	}
	return out
}

// Len returns the number of ranges collected so far.
func (s *EagerSink[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.output)
}
