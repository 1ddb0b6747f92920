package core

import (
	"context"
	"errors"
	"testing"
)

func TestSlice(t *testing.T) {
	tests := []struct {
		name       string
		stream     Stream[int]
		wantValues []int
		wantErr    bool
	}{
		{
			name:       "collects all values",
			stream:     sliceEmitter(Ok(1), Ok(2), Ok(3)),
			wantValues: []int{1, 2, 3},
		},
		{
			name:   "empty stream",
			stream: sliceEmitter(),
		},
		{
			name:    "stops on error",
			stream:  sliceEmitter(Ok(1), Err[int](errors.New("test error")), Ok(3)),
			wantErr: true,
		},
		{
			name:       "skips sentinels",
			stream:     sliceEmitter(Ok(1), Ok(2), EndOfStream[int]()),
			wantValues: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := Slice(context.Background(), tt.stream)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Slice() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(values) != len(tt.wantValues) {
				t.Fatalf("Slice() = %v, want %v", values, tt.wantValues)
			}
			for i := range values {
				if values[i] != tt.wantValues[i] {
					t.Errorf("Slice()[%d] = %d, want %d", i, values[i], tt.wantValues[i])
				}
			}
		})
	}
}

func TestFirst(t *testing.T) {
	ctx := context.Background()

	got, err := First(ctx, sliceEmitter(EndOfStream[int](), Ok(9), Ok(10)))
	if err != nil || got != 9 {
		t.Errorf("First() = (%d, %v), want (9, nil)", got, err)
	}

	if _, err := First(ctx, sliceEmitter()); !errors.Is(err, ErrEmptyStream) {
		t.Errorf("First() on empty stream error = %v, want %v", err, ErrEmptyStream)
	}

	boom := errors.New("boom")
	if _, err := First(ctx, sliceEmitter(Err[int](boom))); !errors.Is(err, boom) {
		t.Errorf("First() error = %v, want %v", err, boom)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	if err := Run(ctx, sliceEmitter(Ok(1), Ok(2))); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}

	boom := errors.New("boom")
	if err := Run(ctx, sliceEmitter(Ok(1), Err[int](boom))); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}
