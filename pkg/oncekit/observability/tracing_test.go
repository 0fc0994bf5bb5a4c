package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("oncekit")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartConstructSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, span := StartConstructSpan(context.Background(), "ids")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "oncekit.construct", s.Name)

	found := false
	for _, attr := range s.Attributes {
		if attr.Key == "holder.name" {
			assert.Equal(t, "ids", attr.Value.AsString())
			found = true
		}
	}
	assert.True(t, found, "Expected holder.name attribute")
}

func TestEndSpanWithError(t *testing.T) {
	t.Run("error sets status and records event", func(t *testing.T) {
		exporter, cleanup := setupTracingTest(t)
		defer cleanup()

		_, span := StartConstructSpan(context.Background(), "ids")
		EndSpanWithError(span, errors.New("seed missing"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "seed missing", spans[0].Status.Description)
		assert.NotEmpty(t, spans[0].Events)
	})

	t.Run("success sets ok", func(t *testing.T) {
		exporter, cleanup := setupTracingTest(t)
		defer cleanup()

		_, span := StartConstructSpan(context.Background(), "ids")
		EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("nil span", func(t *testing.T) {
		assert.NotPanics(t, func() { EndSpanWithError(nil, errors.New("x")) })
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, span := StartConstructSpan(context.Background(), "ids")
	AddSpanEvent(ctx, "storage.loaded", attribute.Bool("found", true))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "storage.loaded", spans[0].Events[0].Name)

	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "no span")
	})
}

func TestSpanManagers(t *testing.T) {
	t.Run("otel span manager delegates", func(t *testing.T) {
		exporter, cleanup := setupTracingTest(t)
		defer cleanup()

		sm := NewSpanManager()
		ctx, span := sm.StartConstructSpan(context.Background(), "ids")
		sm.AddSpanEvent(ctx, "waiting")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "oncekit.construct", spans[0].Name)
	})

	t.Run("noop span manager", func(t *testing.T) {
		exporter, cleanup := setupTracingTest(t)
		defer cleanup()

		sm := NoopSpanManager{}
		ctx := context.Background()
		got, span := sm.StartConstructSpan(ctx, "ids")
		assert.Equal(t, ctx, got)
		sm.EndSpanWithError(span, errors.New("ignored"))
		sm.AddSpanEvent(ctx, "ignored")

		assert.Empty(t, exporter.GetSpans())
	})
}
