package observe

import (
	"sync/atomic"

	"github.com/lguimbarda/rangeflow/flow/ranges"
)

// Counts is a ranges.Observer that tallies events in memory. It is safe for
// concurrent use.
type Counts struct {
	opened    atomic.Int64
	closed    atomic.Int64
	truncated atomic.Int64
	matched   atomic.Int64
	skipped   atomic.Int64
	longest   atomic.Int64
}

var _ ranges.Observer = (*Counts)(nil)

func (c *Counts) RangeOpened() { c.opened.Add(1) }

func (c *Counts) RangeClosed(length int, truncated bool) {
	c.closed.Add(1)
	if truncated {
		c.truncated.Add(1)
	}
	for {
		cur := c.longest.Load()
		if int64(length) <= cur || c.longest.CompareAndSwap(cur, int64(length)) {
			return
		}
	}
}

func (c *Counts) ItemMatched() { c.matched.Add(1) }
func (c *Counts) ItemSkipped() { c.skipped.Add(1) }

// Snapshot is a point-in-time copy of Counts.
type Snapshot struct {
	Opened    int64
	Closed    int64
	Truncated int64
	Matched   int64
	Skipped   int64
	Longest   int64
}

func (c *Counts) Snapshot() Snapshot {
	return Snapshot{
		Opened:    c.opened.Load(),
		Closed:    c.closed.Load(),
		Truncated: c.truncated.Load(),
		Matched:   c.matched.Load(),
		Skipped:   c.skipped.Load(),
		Longest:   c.longest.Load(),
	}
}

type multi []ranges.Observer

// Multi fans events out to every non-nil observer.
func Multi(observers ...ranges.Observer) ranges.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) RangeOpened() {
	for _, o := range m {
		o.RangeOpened()
	}
}

func (m multi) RangeClosed(length int, truncated bool) {
	for _, o := range m {
		o.RangeClosed(length, truncated)
	}
}

func (m multi) ItemMatched() {
	for _, o := range m {
		o.ItemMatched()
	}
}

func (m multi) ItemSkipped() {
	for _, o := range m {
		o.ItemSkipped()
	}
}
