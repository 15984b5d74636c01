// Package observe provides the observability primitives for sotf-rescue:
// OpenTelemetry metrics, tracing spans and trace-aware structured logging.
//
// Metrics are recorded through the OpenTelemetry Metrics API against the
// globally registered provider, which is a no-op unless [InitProvider] has
// been called. A package-level default [Metrics] instance ([DefaultMetrics])
// is provided for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/MrWong99/sotf-rescue"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use; the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// DecodeDuration tracks save file decoding latency. Use with attribute:
	//   attribute.String("file", ...)
	DecodeDuration metric.Float64Histogram

	// EncodeDuration tracks save file encoding latency. Use with attribute:
	//   attribute.String("file", ...)
	EncodeDuration metric.Float64Histogram

	// --- Counters ---

	// FilesLoaded counts save files read and decoded. Use with attributes:
	//   attribute.String("mode", ...), attribute.String("status", ...)
	FilesLoaded metric.Int64Counter

	// FilesWritten counts save files written back by a commit. Use with attribute:
	//   attribute.String("status", ...)
	FilesWritten metric.Int64Counter

	// BytesWritten counts encoded bytes written to disk.
	BytesWritten metric.Int64Counter

	// SavesDiscovered counts catalog entries produced by discovery. Use with attribute:
	//   attribute.String("kind", ...)
	SavesDiscovered metric.Int64Counter

	// Mutations counts companion edits. Use with attributes:
	//   attribute.String("op", ...), attribute.String("companion", ...), attribute.String("status", ...)
	Mutations metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) for file
// sized JSON work; large SaveData.json files take tens of milliseconds.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.DecodeDuration, err = m.Float64Histogram("sotf.codec.decode.duration",
		metric.WithDescription("Latency of decoding one save file."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.EncodeDuration, err = m.Float64Histogram("sotf.codec.encode.duration",
		metric.WithDescription("Latency of encoding one save file."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.FilesLoaded, err = m.Int64Counter("sotf.save.files_loaded",
		metric.WithDescription("Total save files loaded by read mode and status."),
	); err != nil {
		return nil, err
	}
	if met.FilesWritten, err = m.Int64Counter("sotf.save.files_written",
		metric.WithDescription("Total save files written by status."),
	); err != nil {
		return nil, err
	}
	if met.BytesWritten, err = m.Int64Counter("sotf.save.bytes_written",
		metric.WithDescription("Total encoded bytes written to save files."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.SavesDiscovered, err = m.Int64Counter("sotf.save.discovered",
		metric.WithDescription("Total saves found by discovery, by save kind."),
	); err != nil {
		return nil, err
	}
	if met.Mutations, err = m.Int64Counter("sotf.companion.mutations",
		metric.WithDescription("Total companion edits by operation, companion, and status."),
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
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
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

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// Status maps an error to the "status" attribute value.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordDecode records the latency of decoding file, measured from start.
func (m *Metrics) RecordDecode(ctx context.Context, file string, start time.Time) {
	m.DecodeDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("file", file)),
	)
}

// RecordEncode records the latency of encoding file, measured from start.
func (m *Metrics) RecordEncode(ctx context.Context, file string, start time.Time) {
	m.EncodeDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("file", file)),
	)
}

// RecordFileLoaded is a convenience method that records a loaded file
// counter increment with the standard attribute set.
func (m *Metrics) RecordFileLoaded(ctx context.Context, mode string, err error) {
	m.FilesLoaded.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("status", Status(err)),
		),
	)
}

// RecordFileWritten is a convenience method that records a written file and
// its size.
func (m *Metrics) RecordFileWritten(ctx context.Context, size int, err error) {
	m.FilesWritten.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", Status(err))),
	)
	if err == nil {
		m.BytesWritten.Add(ctx, int64(size))
	}
}

// RecordDiscovered records one discovered save of the given kind.
func (m *Metrics) RecordDiscovered(ctx context.Context, kind string) {
	m.SavesDiscovered.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

// RecordMutation is a convenience method that records a companion edit with
// the standard attribute set.
func (m *Metrics) RecordMutation(ctx context.Context, op, companion string, err error) {
	m.Mutations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("companion", companion),
			attribute.String("status", Status(err)),
		),
	)
}
