// Package observe provides the codec's OpenTelemetry metrics: per-frame
// encode and decode latency, frame and concealment counters, and the
// rate control outcome of each encoded frame.
//
// The codec packages do not record metrics themselves; callers such as the
// bench command record around Encode and Decode. Tests should use
// [NewMetrics] with a custom [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all lc3 metrics.
const meterName = "github.com/thesyncim/lc3"

// Metric names.
const (
	EncodeDurationName = "lc3.encode.duration"
	DecodeDurationName = "lc3.decode.duration"
	FramesName         = "lc3.frames"
	ConcealedName      = "lc3.frames.concealed"
	BitsUsedName       = "lc3.frame.bits_used"
	GainRetriesName    = "lc3.encode.gain_retries"
	ActiveStreamsName  = "lc3.active_streams"
)

// Metrics holds all OpenTelemetry metric instruments of the codec.
// All fields are safe for concurrent use.
type Metrics struct {
	// EncodeDuration tracks the latency of encoding one block.
	EncodeDuration metric.Float64Histogram

	// DecodeDuration tracks the latency of decoding one block, concealed
	// or not.
	DecodeDuration metric.Float64Histogram

	// Frames counts processed blocks. Use with attributes:
	//   attribute.String("op", "encode"|"decode"), attribute.String("config", ...)
	Frames metric.Int64Counter

	// Concealed counts decoded blocks that needed concealment.
	Concealed metric.Int64Counter

	// BitsUsed records the fraction of the spectral budget the range coder
	// used per encoded channel frame.
	BitsUsed metric.Float64Histogram

	// GainRetries counts gain increments after the rate control search.
	GainRetries metric.Int64Counter

	// ActiveStreams tracks the number of running encode/decode streams.
	ActiveStreams metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) for
// single-frame codec work.
var latencyBuckets = []float64{
	1e-6, 2.5e-6, 5e-6, 1e-5, 2.5e-5, 5e-5, 1e-4, 2.5e-4, 5e-4, 1e-3,
}

var fillBuckets = []float64{0.25, 0.5, 0.75, 0.9, 0.95, 1, 1.05}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.EncodeDuration, err = m.Float64Histogram(EncodeDurationName,
		metric.WithDescription("Latency of encoding one block."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DecodeDuration, err = m.Float64Histogram(DecodeDurationName,
		metric.WithDescription("Latency of decoding or concealing one block."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Frames, err = m.Int64Counter(FramesName,
		metric.WithDescription("Total blocks processed by operation and configuration."),
	); err != nil {
		return nil, err
	}
	if met.Concealed, err = m.Int64Counter(ConcealedName,
		metric.WithDescription("Total decoded blocks that were concealed."),
	); err != nil {
		return nil, err
	}
	if met.BitsUsed, err = m.Float64Histogram(BitsUsedName,
		metric.WithDescription("Spectral bits written over the spectral budget."),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(fillBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GainRetries, err = m.Int64Counter(GainRetriesName,
		metric.WithDescription("Total global gain increments after the rate control search."),
	); err != nil {
		return nil, err
	}
	if met.ActiveStreams, err = m.Int64UpDownCounter(ActiveStreamsName,
		metric.WithDescription("Number of running encode/decode streams."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider].
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// ConfigAttr labels measurements with a session description such as
// "16000Hz/10000us".
func ConfigAttr(config string) attribute.KeyValue {
	return attribute.String("config", config)
}

// RecordEncode records one encoded block.
func (m *Metrics) RecordEncode(ctx context.Context, config string, d time.Duration) {
	attrs := metric.WithAttributes(ConfigAttr(config))
	m.EncodeDuration.Record(ctx, d.Seconds(), attrs)
	m.Frames.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "encode"), ConfigAttr(config)))
}

// RecordRateControl records the rate control outcome of one channel frame.
func (m *Metrics) RecordRateControl(ctx context.Context, config string, usedBits, budget, retries int) {
	attrs := metric.WithAttributes(ConfigAttr(config))
	if budget > 0 {
		m.BitsUsed.Record(ctx, float64(usedBits)/float64(budget), attrs)
	}
	if retries > 0 {
		m.GainRetries.Add(ctx, int64(retries), attrs)
	}
}

// RecordDecode records one decoded block.
func (m *Metrics) RecordDecode(ctx context.Context, config string, d time.Duration, concealed bool) {
	attrs := metric.WithAttributes(ConfigAttr(config))
	m.DecodeDuration.Record(ctx, d.Seconds(), attrs)
	m.Frames.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "decode"), ConfigAttr(config)))
	if concealed {
		m.Concealed.Add(ctx, 1, attrs)
	}
}
