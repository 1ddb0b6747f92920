package ranges

import (
	"errors"
	"slices"
	"testing"
)

func TestFilter(t *testing.T) {
	for _, tt := range rangeCases {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			f := NewFilter(tt.first, tt.last, func(n int) error {
				got = append(got, n)
				return nil
			})

			if err := f.Run(slices.Values(tt.input)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if want := flatten(tt.want); !slices.Equal(got, want) {
				t.Errorf("Filter emitted %v, want %v", got, want)
			}
		})
	}
}

func TestFilter_ApplyTracksState(t *testing.T) {
	f := NewFilter(isTwo, isThree, func(int) error { return nil })

	steps := []struct {
		item int
		want State
	}{
		{1, Outside}, {2, Inside}, {2, Inside}, {3, Outside}, {3, Outside},
	}
	for _, s := range steps {
		if err := f.Apply(s.item); err != nil {
			t.Fatalf("Apply(%d) error = %v", s.item, err)
		}
		if f.State() != s.want {
			t.Errorf("after Apply(%d) State() = %v, want %v", s.item, f.State(), s.want)
		}
	}
}

func TestFilter_ActionErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	f := NewFilter(isTwo, isThree, func(n int) error {
		calls++
		if n == 5 {
			return boom
		}
		return nil
	})

	err := f.Run(slices.Values([]int{1, 2, 5, 3, 2, 3}))
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if calls != 2 {
		t.Errorf("action called %d times, want 2", calls)
	}
}

func TestNewFilterPanicsOnNilAction(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewFilter with nil action did not panic")
		}
	}()
	NewFilter[int](isTwo, isThree, nil)
}
