package core

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	boom := errors.New("boom")
	toString := Map(func(n int) (string, error) {
		if n < 0 {
			return "", boom
		}
		if n == 13 {
			panic("unlucky")
		}
		return strconv.Itoa(n), nil
	})

	tests := []struct {
		name string
		in   Result[int]
		want func(Result[string]) bool
	}{
		{"value", Ok(4), func(r Result[string]) bool { return r.IsValue() && r.Value() == "4" }},
		{"function error", Ok(-1), func(r Result[string]) bool { return r.IsError() && errors.Is(r.Error(), boom) }},
		{"upstream error", Err[int](boom), func(r Result[string]) bool { return r.IsError() }},
		{"sentinel", EndOfStream[int](), func(r Result[string]) bool { return r.IsEndOfStream() }},
		{"panic", Ok(13), func(r Result[string]) bool { return r.IsError() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toString(tt.in); !tt.want(got) {
				t.Errorf("Map()(%v) = %v", tt.in, got)
			}
		})
	}
}

func TestMapper_ApplyWith(t *testing.T) {
	ctx := context.Background()
	inc := Map(func(n int) (int, error) { return n + 1, nil })

	got, err := Slice(ctx, inc.ApplyWith(ctx, sliceEmitter(Ok(1), Ok(2), Ok(3)), WithBufferSize(0)))
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("ApplyWith() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ApplyWith()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestApplyOptions(t *testing.T) {
	if got := ApplyOptions().BufferSize; got != DefaultBufferSize {
		t.Errorf("ApplyOptions().BufferSize = %d, want %d", got, DefaultBufferSize)
	}
	if got := ApplyOptions(WithBufferSize(3)).BufferSize; got != 3 {
		t.Errorf("WithBufferSize(3) = %d, want 3", got)
	}
	if got := ApplyOptions(WithBufferSize(-1)).BufferSize; got != DefaultBufferSize {
		t.Errorf("WithBufferSize(-1) = %d, want default", got)
	}
}
