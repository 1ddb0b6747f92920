package ranges

import "testing"

func TestParseSinkKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SinkKind
		wantErr bool
	}{
		{in: "eager", want: SinkEager},
		{in: " Channel ", want: SinkChannel},
		{in: "lazy", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSinkKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSinkKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSinkKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if SinkKind(7).String() != "SinkKind(7)" {
		t.Errorf("String() = %q", SinkKind(7).String())
	}
}

func TestCollector_Kinds(t *testing.T) {
	eager := NewCollector(isTwo, isThree, SinkEager)
	if eager.Kind() != SinkEager || eager.Eager() == nil || eager.Channel() != nil {
		t.Error("eager collector exposes the wrong sink")
	}

	channel := NewCollector(isTwo, isThree, SinkChannel)
	defer channel.Close()
	if channel.Kind() != SinkChannel || channel.Channel() == nil || channel.Eager() != nil {
		t.Error("channel collector exposes the wrong sink")
	}
}

func TestCollector_PanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewCollector with an unknown kind did not panic")
		}
	}()
	NewCollector(isTwo, isThree, SinkKind(42))
}

func TestCollector_CloseTruncates(t *testing.T) {
	obs := &countingObserver{}
	c := NewCollector(isTwo, isThree, SinkEager, WithObserver(obs))
	c.Accept(2)
	c.Accept(5)
	c.Close()
	c.Close()
	c.Accept(3)

	if got := c.Eager().Ranges(); !equalRanges(got, [][]int{{2, 5}}) {
		t.Errorf("Ranges() = %v, want [[2 5]]", got)
	}
	if obs.truncated != 1 {
		t.Errorf("truncated = %d, want 1", obs.truncated)
	}
}
