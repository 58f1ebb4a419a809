package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// These tests replace the global tracer provider, so they do not run in parallel.

func TestInitTracerProviderStdout(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	tp, err := InitTracerProvider(ctx, Config{ServiceName: "linkpreview-test", Exporter: ExporterStdout}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry-test").Start(ctx, "preview.handle")
	span.End()
	require.NoError(t, tp.Shutdown(ctx))

	require.Contains(t, buf.String(), "preview.handle")
	require.Contains(t, buf.String(), "linkpreview-test")
}

func TestInitTracerProviderNone(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracerProvider(ctx, Config{ServiceName: "linkpreview-test", Exporter: ExporterNone}, nil)
	require.NoError(t, err)
	require.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer("telemetry-test").Start(ctx, "noop")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, tp.Shutdown(ctx))
}

func TestInitTracerProviderUnknownExporter(t *testing.T) {
	_, err := InitTracerProvider(context.Background(), Config{ServiceName: "x", Exporter: "zipkin"}, nil)
	require.Error(t, err)
}
