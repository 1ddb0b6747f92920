package ranges

import (
	"github.com/rs/zerolog"

	"github.com/lguimbarda/rangeflow/flow/core"
)

// Observer receives range lifecycle events. Implementations must be cheap;
// they are called synchronously from the engine. The observe package
// provides an OpenTelemetry implementation.
type Observer interface {
	RangeOpened()
	RangeClosed(length int, truncated bool)
	ItemMatched()
	ItemSkipped()
}

type nopObserver struct{}

func (nopObserver) RangeOpened()          {}
func (nopObserver) RangeClosed(int, bool) {}
func (nopObserver) ItemMatched()          {}
func (nopObserver) ItemSkipped()          {}

type config struct {
	logger         zerolog.Logger
	observer       Observer
	discardSkipped bool
	bufferSize     int
}

// Option configures an engine.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		logger:     zerolog.Nop(),
		observer:   nopObserver{},
		bufferSize: core.DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger used for debug events. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithObserver registers an Observer. A nil Observer is ignored.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithDiscardSkipped makes a Grouper drop the items it fast-forwards over
// when the outer sequence advances past an undrained Group. By default they
// are kept in that Group's buffer so it can still be read in full.
func WithDiscardSkipped() Option {
	return func(c *config) { c.discardSkipped = true }
}

// WithBufferSize sets the output channel buffer of Extract and Select.
func WithBufferSize(size int) Option {
	return func(c *config) {
		if size >= 0 {
			c.bufferSize = size
		}
	}
}
