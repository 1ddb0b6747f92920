package ranges

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/lguimbarda/rangeflow/flow/core"
	"github.com/lguimbarda/rangeflow/flow/predicate"
)

var (
	isTwo   = predicate.Equal(2)
	isThree = predicate.Equal(3)
	isEven  = predicate.Func(func(n int) bool { return n%2 == 0 })
)

type rangeCase struct {
	name  string
	first predicate.Predicate[int]
	last  predicate.Predicate[int]
	input []int
	want  [][]int
}

var rangeCases = []rangeCase{
	{name: "one range", first: isTwo, last: isThree, input: []int{1, 2, 5, 3, 5}, want: [][]int{{2, 5, 3}}},
	{name: "two ranges", first: isTwo, last: isThree, input: []int{1, 2, 5, 3, 5, 2, 4, 4, 3}, want: [][]int{{2, 5, 3}, {2, 4, 4, 3}}},
	{name: "no match", first: isTwo, last: isThree, input: []int{1, 4, 0, 1}, want: nil},
	{name: "empty input", first: isTwo, last: isThree, input: nil, want: nil},
	{name: "truncated final range", first: isTwo, last: isThree, input: []int{1, 2, 5, 3, 3, 5, 2, 4, 4}, want: [][]int{{2, 5, 3}, {2, 4, 4}}},
	{name: "double start", first: isTwo, last: isThree, input: []int{1, 2, 2, 5, 3, 5, 2, 4, 4, 3}, want: [][]int{{2, 2, 5, 3}, {2, 4, 4, 3}}},
	{name: "double end", first: isTwo, last: isThree, input: []int{1, 2, 5, 3, 3, 5, 2, 4, 4, 3}, want: [][]int{{2, 5, 3}, {2, 4, 4, 3}}},
	{name: "one item range", first: isTwo, last: isEven, input: []int{1, 2, 5, 3, 3, 5, 4, 3}, want: [][]int{{2}}},
	{name: "adjacent ranges", first: isTwo, last: isThree, input: []int{2, 3, 2, 3}, want: [][]int{{2, 3}, {2, 3}}},
	{name: "range starts at first item", first: isTwo, last: isThree, input: []int{2, 9, 3}, want: [][]int{{2, 9, 3}}},
}

func equalRanges(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func flatten(rs [][]int) []int {
	var out []int
	for _, r := range rs {
		out = append(out, r...)
	}
	return out
}

func intStream(values ...int) core.Stream[int] {
	return core.Emit(func(ctx context.Context) <-chan core.Result[int] {
		out := make(chan core.Result[int], len(values))
		for _, v := range values {
			out <- core.Ok(v)
		}
		close(out)
		return out
	})
}

// countingObserver records lifecycle events.
type countingObserver struct {
	mu        sync.Mutex
	opened    int
	closed    int
	truncated int
	matched   int
	skipped   int
	lengths   []int
}

func (o *countingObserver) RangeOpened() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened++
}

func (o *countingObserver) RangeClosed(length int, truncated bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed++
	o.lengths = append(o.lengths, length)
	if truncated {
		o.truncated++
	}
}

func (o *countingObserver) ItemMatched() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.matched++
}

func (o *countingObserver) ItemSkipped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped++
}

func (o *countingObserver) String() string {
	return fmt.Sprintf("opened=%d closed=%d truncated=%d matched=%d skipped=%d lengths=%v",
		o.opened, o.closed, o.truncated, o.matched, o.skipped, o.lengths)
}
