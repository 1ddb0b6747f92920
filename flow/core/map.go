package core

import (
	"context"
	"fmt"
)

// DefaultBufferSize is the default buffer size for internal channels.
const DefaultBufferSize = 64

// TransformConfig holds configuration options for transform operations.
type TransformConfig struct {
	BufferSize int
}

// TransformOption is a functional option for configuring transforms.
type TransformOption func(*TransformConfig)

// WithBufferSize sets the buffer size of a transform's output channel.
// Use 0 for unbuffered (synchronous) hand-off.
func WithBufferSize(size int) TransformOption {
	return func(c *TransformConfig) {
		if size >= 0 {
			c.BufferSize = size
		}
	}
}

// ApplyOptions returns the default TransformConfig with opts applied.
func ApplyOptions(opts ...TransformOption) TransformConfig {
	cfg := TransformConfig{BufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Mapper maps each Result of type IN to one Result of type OUT.
type Mapper[IN, OUT any] func(Result[IN]) Result[OUT]

// Map creates a Mapper from a value function. Errors returned by mapFunc and
// panics raised by it become error Results; upstream errors pass through and
// sentinels are forwarded with their type converted.
func Map[IN, OUT any](mapFunc func(IN) (OUT, error)) Mapper[IN, OUT] {
	return func(res Result[IN]) (out Result[OUT]) {
		defer func() {
			if r := recover(); r != nil {
				out = Err[OUT](fmt.Errorf("panic in Map function: %v", r))
			}
		}()

		switch {
		case res.IsError():
			return Err[OUT](res.Error())
		case res.IsSentinel():
			return Sentinel[OUT](res.Sentinel())
		}
		mapped, err := mapFunc(res.Value())
		if err != nil {
			return Err[OUT](err)
		}
		return Ok(mapped)
	}
}

// Apply transforms a stream using this Mapper with default configuration.
func (m Mapper[IN, OUT]) Apply(ctx context.Context, s Stream[IN]) Stream[OUT] {
	return m.ApplyWith(ctx, s)
}

// ApplyWith transforms a stream using this Mapper with custom options.
func (m Mapper[IN, OUT]) ApplyWith(_ context.Context, s Stream[IN], opts ...TransformOption) Stream[OUT] {
	cfg := ApplyOptions(opts...)
	return Emit(func(ctx context.Context) <-chan Result[OUT] {
		out := make(chan Result[OUT], cfg.BufferSize)
		go func() {
			defer close(out)
			for res := range s.Emit(ctx) {
				if !Send(ctx, out, m(res)) {
					return
				}
			}
		}()
		return out
	})
}
