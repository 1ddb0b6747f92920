package flow_test

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/lguimbarda/rangeflow/flow"
	"github.com/lguimbarda/rangeflow/flow/predicate"
)

func TestFromSliceRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, n := range []int{0, 3, 600} {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		got, err := flow.Slice(ctx, flow.FromSlice(items))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(got) != n || (n > 0 && !slices.Equal(got, items)) {
			t.Errorf("n=%d: got %d items", n, len(got))
		}
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	ch <- "c"
	close(ch)

	got, err := flow.Slice(context.Background(), flow.FromChannel(ch))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("got %v", got)
	}
}

func TestFromIterAndEmpty(t *testing.T) {
	ctx := context.Background()
	got, err := flow.Slice(ctx, flow.FromIter(slices.Values([]int{1, 2})))
	if err != nil || !slices.Equal(got, []int{1, 2}) {
		t.Errorf("FromIter: got %v, %v", got, err)
	}
	if _, err := flow.First(ctx, flow.Empty[int]()); err == nil {
		t.Error("First on Empty: expected error")
	}
}

func TestGenerate(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	stream := flow.Generate(func() (int, bool, error) {
		n++
		switch {
		case n == 2:
			return 0, true, boom
		case n > 4:
			return 0, false, nil
		}
		return n, true, nil
	})

	results := flow.Collect(context.Background(), stream)
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if !errors.Is(results[1].Error(), boom) {
		t.Errorf("results[1] = %v, want error", results[1])
	}
}

func TestThroughAndPipe(t *testing.T) {
	ctx := context.Background()
	double := flow.Map(func(n int) (int, error) { return n * 2, nil })
	toString := flow.Map(func(n int) (string, error) { return strings.Repeat("x", n), nil })

	got, err := flow.Slice(ctx, flow.Apply(ctx, flow.FromSlice([]int{1, 2}), flow.Through[int, int, string](double, toString)))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"xx", "xxxx"}) {
		t.Errorf("Through: got %v", got)
	}

	piped, err := flow.Slice(ctx, flow.Pipe[int](ctx, flow.FromSlice([]int{1}), double, double))
	if err != nil || !slices.Equal(piped, []int{4}) {
		t.Errorf("Pipe: got %v, %v", piped, err)
	}
}

func TestLineRanges(t *testing.T) {
	lines := []string{"x", "BEGIN", "a", "END", "y", "BEGIN", "b"}

	g, err := flow.LineRanges("^BEGIN", regexp.MustCompile("^END"), slices.Values(lines))
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	var got [][]string
	for group := range g.All() {
		got = append(got, group.Slice())
	}
	want := [][]string{{"BEGIN", "a", "END"}, {"BEGIN", "b"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("range %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLineRangesInvalidBoundary(t *testing.T) {
	cases := []struct {
		name        string
		first, last any
	}{
		{"int", 42, "x"},
		{"bad regexp", "x", "("},
		{"nil", nil, "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := flow.LineRanges(tc.first, tc.last, slices.Values([]string{"x"})); !errors.Is(err, flow.ErrInvalidPredicate) {
				t.Errorf("got %v, want ErrInvalidPredicate", err)
			}
		})
	}
}

func TestExtractAndCollectRanges(t *testing.T) {
	ctx := context.Background()
	items := []int{5, 0, 7, 1, 0, 8}
	first, last := predicate.Equal(0), predicate.Equal(1)

	eager := flow.CollectRanges(first, last, slices.Values(items))
	streamed, err := flow.Slice(ctx, flow.Apply(ctx, flow.FromSlice(items), flow.Extract(first, last)))
	if err != nil {
		t.Fatal(err)
	}
	if len(eager) != 2 || len(streamed) != 2 {
		t.Fatalf("eager %v, streamed %v", eager, streamed)
	}
	for i := range eager {
		if !slices.Equal(eager[i], streamed[i]) {
			t.Errorf("range %d: eager %v, streamed %v", i, eager[i], streamed[i])
		}
	}

	selected, err := flow.Slice(ctx, flow.Apply(ctx, flow.FromSlice(items), flow.Select(first, last)))
	if err != nil || !slices.Equal(selected, []int{0, 7, 1, 0, 8}) {
		t.Errorf("Select: got %v, %v", selected, err)
	}
}
