package observe

import (
	"context"
	"time"

	"github.com/lguimbarda/rangeflow/flow/core"
)

// StreamMetrics holds statistics about a stream's execution.
type StreamMetrics struct {
	TotalItems    int64
	ValueCount    int64
	ErrorCount    int64
	SentinelCount int64

	StartTime time.Time
	EndTime   time.Time

	ItemsPerSecond float64
}

// Duration returns how long the stream ran.
func (m StreamMetrics) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// Meter creates a Transformer that counts the Results passing through it.
// onComplete is called with the final metrics when the input ends or the
// context is cancelled.
func Meter[T any](onComplete func(StreamMetrics)) core.Transformer[T, T] {
	return core.Transmit(func(ctx context.Context, in <-chan core.Result[T]) <-chan core.Result[T] {
		out := make(chan core.Result[T])
		go func() {
			defer close(out)

			metrics := StreamMetrics{StartTime: time.Now()}
			defer func() {
				metrics.EndTime = time.Now()
				if seconds := metrics.Duration().Seconds(); metrics.TotalItems > 0 && seconds > 0 {
					metrics.ItemsPerSecond = float64(metrics.TotalItems) / seconds
				}
				if onComplete != nil {
					onComplete(metrics)
				}
			}()

			for res := range in {
				metrics.TotalItems++
				switch {
				case res.IsError():
					metrics.ErrorCount++
				case res.IsSentinel():
					metrics.SentinelCount++
				default:
					metrics.ValueCount++
				}
				if !core.Send(ctx, out, res) {
					return
				}
			}
		}()
		return out
	})
}
