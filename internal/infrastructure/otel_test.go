package infrastructure

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ridership/internal/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestInitializeTelemetry_Disabled(t *testing.T) {
	providers, err := InitializeTelemetry(TelemetryConfig{
		Tracing: config.TracingConfig{Enabled: false, Exporter: "none"},
		Metrics: config.MetricsConfig{Enabled: false},
	}, newTestLogger())
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.Nil(t, providers.Registry)

	_, span := providers.Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	// No registry means nothing to write.
	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))
	assert.NoFileExists(t, path)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeTelemetry_StdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeTelemetry(TelemetryConfig{
		Tracing:     config.TracingConfig{Enabled: true, Exporter: "stdout"},
		TraceWriter: &buf,
	}, newTestLogger())
	require.NoError(t, err)

	ctx, span := providers.Tracer().Start(context.Background(), "pipeline.step.load")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))

	assert.Contains(t, buf.String(), "pipeline.step.load")
}

func TestInitializeTelemetry_UnsupportedExporter(t *testing.T) {
	_, err := InitializeTelemetry(TelemetryConfig{
		Tracing: config.TracingConfig{Enabled: true, Exporter: "zipkin"},
	}, newTestLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

func TestPipelineMetrics_WriteTextfile(t *testing.T) {
	providers, err := InitializeTelemetry(TelemetryConfig{
		Metrics: config.MetricsConfig{Enabled: true},
	}, newTestLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter())
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	metrics.RowsTotal.Add(ctx, 3, metric.WithAttributes(attribute.String("step", "load")))
	metrics.StepDuration.Record(ctx, 0.25, metric.WithAttributes(attribute.String("step", "load")))

	path := filepath.Join(t.TempDir(), "nested", "ridership.prom")
	require.NoError(t, providers.WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "pipeline_runs_total")
	assert.Contains(t, string(content), "pipeline_rows_total")
	assert.Contains(t, string(content), "pipeline_step_duration_seconds")
	assert.Contains(t, string(content), `status="success"`)
}

func TestCreatePipelineMetrics_Noop(t *testing.T) {
	providers, err := InitializeTelemetry(TelemetryConfig{}, newTestLogger())
	require.NoError(t, err)

	metrics, err := CreatePipelineMetrics(providers.Meter())
	require.NoError(t, err)

	// Recording on no-op instruments must not panic.
	metrics.PagesTotal.Add(context.Background(), 1)
}
