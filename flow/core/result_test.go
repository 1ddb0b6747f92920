package core

import (
	"errors"
	"testing"
)

func TestResultStates(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		res          Result[int]
		wantValue    bool
		wantError    bool
		wantSentinel bool
		wantEnd      bool
	}{
		{name: "ok", res: Ok(7), wantValue: true},
		{name: "ok zero value", res: Ok(0), wantValue: true},
		{name: "error", res: Err[int](boom), wantError: true},
		{name: "sentinel", res: Sentinel[int](boom), wantSentinel: true},
		{name: "end of stream", res: EndOfStream[int](), wantSentinel: true, wantEnd: true},
		{name: "explicit", res: NewResult(3, nil, false), wantValue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.IsValue(); got != tt.wantValue {
				t.Errorf("IsValue() = %v, want %v", got, tt.wantValue)
			}
			if got := tt.res.IsError(); got != tt.wantError {
				t.Errorf("IsError() = %v, want %v", got, tt.wantError)
			}
			if got := tt.res.IsSentinel(); got != tt.wantSentinel {
				t.Errorf("IsSentinel() = %v, want %v", got, tt.wantSentinel)
			}
			if got := tt.res.IsEndOfStream(); got != tt.wantEnd {
				t.Errorf("IsEndOfStream() = %v, want %v", got, tt.wantEnd)
			}
		})
	}
}

func TestResultAccessors(t *testing.T) {
	boom := errors.New("boom")

	if got := Ok(5).Value(); got != 5 {
		t.Errorf("Ok(5).Value() = %d, want 5", got)
	}
	if got := Err[int](boom).Error(); !errors.Is(got, boom) {
		t.Errorf("Err().Error() = %v, want %v", got, boom)
	}
	if got := Sentinel[int](boom).Error(); got != nil {
		t.Errorf("Sentinel().Error() = %v, want nil", got)
	}
	if got := Sentinel[int](boom).Sentinel(); !errors.Is(got, boom) {
		t.Errorf("Sentinel().Sentinel() = %v, want %v", got, boom)
	}
	if got := Ok(1).Sentinel(); got != nil {
		t.Errorf("Ok().Sentinel() = %v, want nil", got)
	}

	v, err := Err[string](boom).Unwrap()
	if v != "" || !errors.Is(err, boom) {
		t.Errorf("Unwrap() = (%q, %v), want (\"\", %v)", v, err, boom)
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		res  Result[int]
		want string
	}{
		{Ok(3), "Ok(3)"},
		{Err[int](errors.New("x")), "Err(x)"},
		{EndOfStream[int](), "Sentinel(end of stream)"},
	}
	for _, tt := range tests {
		if got := tt.res.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
