package ranges

import (
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/lguimbarda/rangeflow/flow/predicate"
)

// SinkKind selects how a Collector delivers ranges.
type SinkKind int

const (
	SinkEager SinkKind = iota
	SinkChannel
)

func (k SinkKind) String() string {
	switch k {
	case SinkEager:
		return "eager"
	case SinkChannel:
		return "channel"
	default:
		return fmt.Sprintf("SinkKind(%d)", int(k))
	}
}

// ParseSinkKind parses "eager" or "channel".
func ParseSinkKind(s string) (SinkKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eager":
		return SinkEager, nil
	case "channel":
		return SinkChannel, nil
	default:
		return 0, fmt.Errorf("unknown sink kind %q", s)
	}
}

// Collector drives a Tracker and forwards matched items to a sink chosen
// at construction. Accept and Close may be called from different
// goroutines; Close is idempotent.
type Collector[T any] struct {
	mu      sync.Mutex
	kind    SinkKind
	tracker *Tracker[T]
	sink    Sink[T]
	eager   *EagerSink[T]
	channel *ChannelSink[T]
	closed  bool
}

// NewCollector panics on a nil predicate or an unknown kind.
func NewCollector[T any](first, last predicate.Predicate[T], kind SinkKind, opts ...Option) *Collector[T] {
	c := &Collector[T]{
		kind:    kind,
		tracker: NewTracker(first, last, opts...),
	}
	switch kind {
	case SinkEager:
		c.eager = NewEagerSink[T]()
		c.sink = c.eager
	case SinkChannel:
		c.channel = NewChannelSink[T]()
		c.sink = c.channel
	default:
		panic(fmt.Sprintf("ranges: unknown sink kind %v", kind))
	}
	return c
}

// Kind returns the sink kind.
func (c *Collector[T]) Kind() SinkKind { return c.kind }

// Accept classifies item and hands it to the sink. It is a no-op after Close.
func (c *Collector[T]) Accept(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if tr := c.tracker.Step(item); tr.Emit {
		c.sink.Accept(item, tr)
	}
}

// Close retires any open range as truncated and closes the sink.
func (c *Collector[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.tracker.Finish()
	c.sink.Close()
}

// Eager returns the eager sink, or nil for a channel Collector.
func (c *Collector[T]) Eager() *EagerSink[T] { return c.eager }

// Channel returns the channel sink, or nil for an eager Collector.
func (c *Collector[T]) Channel() *ChannelSink[T] { return c.channel }

// Collect runs src through an eager Collector and returns every range.
func Collect[T any](first, last predicate.Predicate[T], src iter.Seq[T], opts ...Option) [][]T {
	c := NewCollector(first, last, SinkEager, opts...)
	defer c.Close()

	for item := range src {
		c.Accept(item)
	}
	c.Close()
	return c.Eager().Ranges()
}
