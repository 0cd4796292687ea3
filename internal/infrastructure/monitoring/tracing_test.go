package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func TestTracingProvider(t *testing.T) {
	t.Run("Disabled_ShouldNotExport", func(t *testing.T) {
		// Act
		tp, err := NewTracingProvider(TracingConfig{}, zaptest.NewLogger(t))

		// Assert
		require.NoError(t, err)
		assert.False(t, tp.Enabled())
		assert.NoError(t, tp.Shutdown(context.Background()))
	})

	t.Run("MissingEndpoint_ShouldFail", func(t *testing.T) {
		// Act
		_, err := NewTracingProvider(TracingConfig{Enabled: true}, zaptest.NewLogger(t))

		// Assert
		assert.Error(t, err)
	})

	t.Run("Enabled_ShouldExportSpansOnShutdown", func(t *testing.T) {
		// Arrange
		exporter := tracetest.NewInMemoryExporter()
		tp, err := NewTracingProvider(TracingConfig{
			Enabled:      true,
			ServiceName:  "dietplanner",
			SamplingRate: 1,
		}, zaptest.NewLogger(t), WithExporter(exporter), WithoutGlobal())
		require.NoError(t, err)

		// Act
		ctx, span := tp.Tracer("test").Start(context.Background(), "dietplan.generate")
		traceID := TraceIDFromContext(ctx)
		span.End()
		require.NoError(t, tp.Shutdown(context.Background()))

		// Assert
		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "dietplan.generate", spans[0].Name)
		assert.Equal(t, traceID, spans[0].SpanContext.TraceID().String())
	})

	t.Run("ZeroRate_ShouldDropRootSpans", func(t *testing.T) {
		// Arrange
		exporter := tracetest.NewInMemoryExporter()
		tp, err := NewTracingProvider(TracingConfig{Enabled: true, SamplingRate: 0}, zaptest.NewLogger(t),
			WithExporter(exporter), WithoutGlobal())
		require.NoError(t, err)

		// Act
		_, span := tp.Tracer("test").Start(context.Background(), "ignored")
		span.End()
		require.NoError(t, tp.Shutdown(context.Background()))

		// Assert
		assert.Empty(t, exporter.GetSpans())
	})
}

func TestTraceIDFromContext_NoSpan_ShouldBeEmpty(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
