// Package observe measures range extraction: OpenTelemetry instruments
// that plug into the range engines as a ranges.Observer, an in-process
// Counts observer, a stream Meter, and a Prometheus scrape handler.
package observe

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lguimbarda/rangeflow/flow/ranges"
)

const (
	metricRangesOpened = "rangeflow.ranges.opened.total"
	metricRangesClosed = "rangeflow.ranges.closed.total"
	metricItemsMatched = "rangeflow.items.matched.total"
	metricItemsSkipped = "rangeflow.items.skipped.total"
	metricRangeLength  = "rangeflow.range.length"

	attrTruncated = "truncated"
)

// Range length bucket boundaries, in items.
var lengthBucketBoundaries = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 10000}

// Instruments records range lifecycle events as OTel metrics. It implements
// ranges.Observer. Methods are safe to call on a nil receiver.
type Instruments struct {
	opened  metric.Int64Counter
	closed  metric.Int64Counter
	matched metric.Int64Counter
	skipped metric.Int64Counter
	length  metric.Int64Histogram

	attrs     metric.MeasurementOption
	truncAttr metric.MeasurementOption
	fullAttr  metric.MeasurementOption
}

var _ ranges.Observer = (*Instruments)(nil)

// NewInstruments creates the range instruments from meter. attrs are added
// to every measurement, e.g. the consumption mode.
func NewInstruments(meter metric.Meter, attrs ...attribute.KeyValue) (*Instruments, error) {
	b := metricBuilder{meter: meter}

	ins := &Instruments{
		opened:  b.counter(metricRangesOpened, "Ranges opened by a first match", "{range}"),
		closed:  b.counter(metricRangesClosed, "Ranges closed, by truncation", "{range}"),
		matched: b.counter(metricItemsMatched, "Items delivered as part of a range", "{item}"),
		skipped: b.counter(metricItemsSkipped, "Items outside any range or discarded", "{item}"),
		length:  b.histogram(metricRangeLength, "Items per closed range", "{item}", lengthBucketBoundaries...),

		attrs:     metric.WithAttributes(attrs...),
		truncAttr: metric.WithAttributes(append(attrs[:len(attrs):len(attrs)], attribute.Bool(attrTruncated, true))...),
		fullAttr:  metric.WithAttributes(append(attrs[:len(attrs):len(attrs)], attribute.Bool(attrTruncated, false))...),
	}
	if b.err != nil {
		return nil, b.err
	}
	return ins, nil
}

func (ins *Instruments) RangeOpened() {
	if ins == nil {
		return
	}
	ins.opened.Add(context.Background(), 1, ins.attrs)
}

func (ins *Instruments) RangeClosed(length int, truncated bool) {
	if ins == nil {
		return
	}
	attrs := ins.fullAttr
	if truncated {
		attrs = ins.truncAttr
	}
	ins.closed.Add(context.Background(), 1, attrs)
	ins.length.Record(context.Background(), int64(length), attrs)
}

func (ins *Instruments) ItemMatched() {
	if ins == nil {
		return
	}
	ins.matched.Add(context.Background(), 1, ins.attrs)
}

func (ins *Instruments) ItemSkipped() {
	if ins == nil {
		return
	}
	ins.skipped.Add(context.Background(), 1, ins.attrs)
}

// metricBuilder keeps the first instrument creation error.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.err = errors.Join(b.err, err)
	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Int64Histogram {
	h, err := b.meter.Int64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	b.err = errors.Join(b.err, err)
	return h
}
