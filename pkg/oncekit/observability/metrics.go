package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records holder metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordConstruction records a factory invocation with its duration and error status.
	RecordConstruction(ctx context.Context, holder string, duration time.Duration, err error)

	// RecordWait records the time a caller spent blocked on another caller's construction.
	RecordWait(ctx context.Context, holder string, duration time.Duration)

	// RecordLookup records a keyed lookup and whether the entry already existed.
	RecordLookup(ctx context.Context, holder string, hit bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	constructions       metric.Int64Counter
	constructionLatency metric.Float64Histogram
	constructionErrors  metric.Int64Counter
	waitLatency         metric.Float64Histogram
	lookups             metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance on the global meter provider.
func newOtelMetrics() (*otelMetrics, error) {
	return newMeterMetrics(otel.Meter("oncekit"))
}

func newMeterMetrics(meter metric.Meter) (*otelMetrics, error) {
	constructions, err := meter.Int64Counter("oncekit.constructions",
		metric.WithDescription("Number of factory invocations"),
	)
	if err != nil {
		return nil, err
	}

	constructionLatency, err := meter.Float64Histogram("oncekit.construction.latency_ms",
		metric.WithDescription("Factory latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	constructionErrors, err := meter.Int64Counter("oncekit.construction.errors",
		metric.WithDescription("Number of failed factory invocations"),
	)
	if err != nil {
		return nil, err
	}

	waitLatency, err := meter.Float64Histogram("oncekit.wait.latency_ms",
		metric.WithDescription("Time callers spent waiting on an in-flight construction"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("oncekit.lookups",
		metric.WithDescription("Number of keyed lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		constructions:       constructions,
		constructionLatency: constructionLatency,
		constructionErrors:  constructionErrors,
		waitLatency:         waitLatency,
		lookups:             lookups,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithProvider returns a MetricsRecorder whose instruments
// belong to mp instead of the global provider.
func NewMetricsRecorderWithProvider(mp metric.MeterProvider) (MetricsRecorder, error) {
	return newMeterMetrics(mp.Meter("oncekit"))
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// RecordConstruction records a factory invocation.
func (m *otelMetrics) RecordConstruction(ctx context.Context, holder string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("holder", holder))

	m.constructions.Add(ctx, 1, attrs)
	m.constructionLatency.Record(ctx, durationMs(duration), attrs)

	if err != nil {
		m.constructionErrors.Add(ctx, 1, attrs)
	}
}

// RecordWait records time spent blocked on another caller's construction.
func (m *otelMetrics) RecordWait(ctx context.Context, holder string, duration time.Duration) {
	m.waitLatency.Record(ctx, durationMs(duration),
		metric.WithAttributes(attribute.String("holder", holder)))
}

// RecordLookup records a keyed lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, holder string, hit bool) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("holder", holder),
		attribute.Bool("hit", hit),
	))
}
