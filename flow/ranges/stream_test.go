package ranges

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/lguimbarda/rangeflow/flow/core"
)

func TestExtract(t *testing.T) {
	for _, tt := range rangeCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			got, err := core.Slice(ctx, Extract(tt.first, tt.last).Apply(ctx, intStream(tt.input...)))
			if err != nil {
				t.Fatalf("Slice() error = %v", err)
			}
			if !equalRanges(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	for _, tt := range rangeCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			got, err := core.Slice(ctx, Select(tt.first, tt.last, WithBufferSize(0)).Apply(ctx, intStream(tt.input...)))
			if err != nil {
				t.Fatalf("Slice() error = %v", err)
			}
			if want := flatten(tt.want); !slices.Equal(got, want) {
				t.Errorf("Select() = %v, want %v", got, want)
			}
		})
	}
}

func TestExtract_PassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	in := core.Emit(func(ctx context.Context) <-chan core.Result[int] {
		out := make(chan core.Result[int], 5)
		out <- core.Ok(2)
		out <- core.Err[int](boom)
		out <- core.EndOfStream[int]()
		out <- core.Ok(3)
		close(out)
		return out
	})

	ctx := context.Background()
	results := core.Collect(ctx, Extract(isTwo, isThree).Apply(ctx, in))

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(results), results)
	}
	if !results[0].IsError() || !errors.Is(results[0].Error(), boom) {
		t.Errorf("results[0] = %v, want the upstream error", results[0])
	}
	if !results[1].IsValue() || !slices.Equal(results[1].Value(), []int{2, 3}) {
		t.Errorf("results[1] = %v, want Ok([2 3])", results[1])
	}
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	endless := core.Emit(func(ctx context.Context) <-chan core.Result[int] {
		out := make(chan core.Result[int])
		go func() {
			defer close(out)
			for i := 0; ; i++ {
				if !core.Send(ctx, out, core.Ok(i%4)) {
					return
				}
			}
		}()
		return out
	})

	stream := Extract(isTwo, isThree, WithBufferSize(0)).Apply(ctx, endless)
	ch := stream.Emit(ctx)
	first := <-ch
	if !slices.Equal(first.Value(), []int{2, 3}) {
		t.Errorf("first range = %v, want [2 3]", first.Value())
	}
	cancel()
	for range ch {
	}
}
