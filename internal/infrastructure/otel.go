package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"ridership/internal/config"
)

const (
	ServiceName         = "ridership"
	ServiceVersion      = "1.0.0"
	InstrumentationName = "ridership"
)

// TelemetryConfig groups the tracing and metrics sections with the span output stream
type TelemetryConfig struct {
	Tracing config.TracingConfig
	Metrics config.MetricsConfig
	// TraceWriter receives stdout-exported spans; os.Stderr when nil.
	TraceWriter io.Writer
}

// TelemetryProviders holds the OpenTelemetry providers for one process.
// Disabled signals are backed by no-op providers so callers never nil-check.
type TelemetryProviders struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Registry is the Prometheus registry fed by the OTel exporter; nil when metrics are off.
	Registry *promclient.Registry

	sdkTracerProvider *sdktrace.TracerProvider
	sdkMeterProvider  *sdkmetric.MeterProvider
	logger            *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics according to cfg and installs the
// providers as the otel globals.
func InitializeTelemetry(cfg TelemetryConfig, logger *slog.Logger) (*TelemetryProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &TelemetryProviders{
		TracerProvider: tracenoop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
		logger:         logger,
	}

	if cfg.Tracing.Enabled {
		if err := initializeTracing(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.Metrics.Enabled {
		if err := initializeMetrics(res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTracerProvider(providers.TracerProvider)
	otel.SetMeterProvider(providers.MeterProvider)

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing.Enabled),
		slog.String("trace_exporter", cfg.Tracing.Exporter),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource() (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(cfg TelemetryConfig, res *resource.Resource, providers *TelemetryProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Tracing.Exporter {
	case "stdout":
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.Tracing.Exporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	providers.sdkTracerProvider = tp
	providers.TracerProvider = tp
	return nil
}

// initializeMetrics bridges OTel instruments into a Prometheus registry that is
// written out as a textfile at the end of the run
func initializeMetrics(res *resource.Resource, providers *TelemetryProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.sdkMeterProvider = mp
	providers.MeterProvider = mp
	return nil
}

// Tracer returns the application tracer
func (p *TelemetryProviders) Tracer() trace.Tracer {
	return p.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(ServiceVersion))
}

// Meter returns the application meter
func (p *TelemetryProviders) Meter() metric.Meter {
	return p.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(ServiceVersion))
}

// WriteMetrics writes the current metric values to path in the Prometheus text format.
// It is a no-op when metrics are disabled and must be called before Shutdown.
func (p *TelemetryProviders) WriteMetrics(path string) error {
	if p.Registry == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}

	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	p.logger.Debug("Metrics written", slog.String("path", path))
	return nil
}

// Shutdown flushes pending spans and stops the providers
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.sdkTracerProvider != nil {
		if err := p.sdkTracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.sdkMeterProvider != nil {
		if err := p.sdkMeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	return nil
}

// PipelineMetrics holds the instruments recorded by the pipeline and the scraper
type PipelineMetrics struct {
	RunsTotal    metric.Int64Counter
	StepDuration metric.Float64Histogram
	RowsTotal    metric.Int64Counter
	PagesTotal   metric.Int64Counter
}

// CreatePipelineMetrics creates the application instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"pipeline_runs",
		metric.WithDescription("Pipeline runs by final status"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"pipeline_step_duration",
		metric.WithDescription("Pipeline step execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsTotal, err := meter.Int64Counter(
		"pipeline_rows",
		metric.WithDescription("Rows handled by pipeline steps"),
	)
	if err != nil {
		return nil, err
	}

	pagesTotal, err := meter.Int64Counter(
		"scraper_pages",
		metric.WithDescription("Ridership tables fetched by the scraper"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:    runsTotal,
		StepDuration: stepDuration,
		RowsTotal:    rowsTotal,
		PagesTotal:   pagesTotal,
	}, nil
}

// TraceIDFromContext extracts the OTel trace ID from context, if a span is active
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
